package config

import (
	"google.golang.org/api/option"
)

// GoogleCredentials returns the client option shared by every Google client (firestore,
// firebase storage, FCM and drive). Inline JSON wins over the key file.
func (c *Config) GoogleCredentials() option.ClientOption {
	if c.FirebaseCredentials != "" {
		return option.WithCredentialsJSON([]byte(c.FirebaseCredentials))
	}
	return option.WithCredentialsFile(c.FirebaseCredentialsFile)
}
