package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/formbase/formbase/pkg/fb/config"
	"github.com/formbase/formbase/pkg/fb/logger"
)

// Seeder creates the initial admin account on an empty database.
type Seeder struct {
	service         Service
	log             logger.Logger
	username        string
	email           string
	credentialsPath string
}

// NewSeeder creates a new auth seeder from the credentials config.
func NewSeeder(service Service, cfg *config.Config, log logger.Logger) *Seeder {
	return &Seeder{
		service:         service,
		log:             log,
		username:        cfg.Credentials.AdminUsername,
		email:           cfg.Credentials.AdminEmail,
		credentialsPath: cfg.Credentials.Path,
	}
}

// Start seeds the admin user if one is configured and no users exist.
func (s *Seeder) Start(ctx context.Context) error {
	if s.username == "" {
		return nil
	}

	count, err := s.service.CountUsers(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		s.log.Info("Users already exist, skipping auth seeding")
		return nil
	}

	email := s.email
	if email == "" {
		email = s.username + "@localhost"
	}

	password, err := generateRandomPassword()
	if err != nil {
		return err
	}

	user, err := s.service.CreateUser(ctx, s.username, email, password, RoleAdmin)
	if err != nil {
		return fmt.Errorf("cannot create admin user: %w", err)
	}

	s.log.Infof("Created admin user: %s", user.Username)

	if s.credentialsPath != "" {
		if err := s.writeCredentials(user.Username, password); err != nil {
			s.log.Errorf("Cannot write credentials file: %v", err)
		} else {
			s.log.Infof("Credentials written to: %s", s.credentialsPath)
		}
	} else {
		s.log.Infof("Admin credentials - Username: %s, Password: %s", user.Username, password)
	}

	return nil
}

func (s *Seeder) writeCredentials(username, password string) error {
	dir := filepath.Dir(s.credentialsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	content := fmt.Sprintf("Username: %s\nPassword: %s\n", username, password)
	if err := os.WriteFile(s.credentialsPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("cannot write file: %w", err)
	}

	return nil
}

func generateRandomPassword() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("cannot generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
