package serverconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/hemalytics/labd/pkg/lab/application/model"
)

const (
	DefaultListenAddr        = ":8501"
	DefaultDataFile          = "blood_analyses.json"
	DefaultSessionTTL        = 12 * time.Hour
	DefaultRetentionSchedule = "@hourly"
)

type Account struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Config struct {
	ListenAddr        string    `json:"listenAddr,omitempty"`
	DataFile          string    `json:"dataFile,omitempty"`
	SessionTTL        string    `json:"sessionTTL,omitempty"`
	Retention         string    `json:"retention,omitempty"`
	RetentionSchedule string    `json:"retentionSchedule,omitempty"`
	Accounts          []Account `json:"accounts"`
}

// Load reads the server configuration. Both JSON and YAML files are
// accepted, YAML being a superset here.
func Load(filePath string) (model.Server, error) {
	configBody, err := os.ReadFile(filePath)
	if err != nil {
		return model.Server{}, errors.Wrapf(err, "failed to read config file: %v", filePath)
	}
	var config Config
	err = yaml.Unmarshal(configBody, &config)
	if err != nil {
		return model.Server{}, errors.Wrap(err, "failed to unmarshal config")
	}
	err = assertAccounts(config)
	if err != nil {
		return model.Server{}, err
	}
	return mapInfraConfigToAppConfig(config)
}

func mapInfraConfigToAppConfig(config Config) (model.Server, error) {
	server := model.Server{
		ListenAddr:        config.ListenAddr,
		DataFile:          config.DataFile,
		SessionTTL:        DefaultSessionTTL,
		RetentionSchedule: config.RetentionSchedule,
	}
	if server.ListenAddr == "" {
		server.ListenAddr = DefaultListenAddr
	}
	if server.DataFile == "" {
		server.DataFile = DefaultDataFile
	}
	if server.RetentionSchedule == "" {
		server.RetentionSchedule = DefaultRetentionSchedule
	}
	if config.SessionTTL != "" {
		ttl, err := time.ParseDuration(config.SessionTTL)
		if err != nil {
			return model.Server{}, errors.Wrap(err, "failed to parse sessionTTL")
		}
		server.SessionTTL = ttl
	}
	if config.Retention != "" {
		retention, err := time.ParseDuration(config.Retention)
		if err != nil {
			return model.Server{}, errors.Wrap(err, "failed to parse retention")
		}
		server.Retention = retention
	}
	for _, account := range config.Accounts {
		server.Accounts = append(server.Accounts, model.Account{
			Name:     account.Name,
			Password: account.Password,
			Role:     model.Role(account.Role),
		})
	}
	return server, nil
}

func assertAccounts(config Config) error {
	for _, account := range config.Accounts {
		if account.Name == "" {
			return fmt.Errorf("account with empty name")
		}
		role := model.Role(account.Role)
		if role != model.RoleLab && role != model.RoleDoctor {
			return fmt.Errorf("unexpected role %v for account %v", account.Role, account.Name)
		}
	}
	return nil
}
