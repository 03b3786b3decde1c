package config

// FirebaseEnabled reports whether a service account key was configured for FCM pushes.
func FirebaseEnabled() bool {
	return AppConfig.FirebaseCredentialsPath != ""
}

// SMTPEnabled reports whether outbound email is configured.
func SMTPEnabled() bool {
	return AppConfig.SMTPHost != ""
}
