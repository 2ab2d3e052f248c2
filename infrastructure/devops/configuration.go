package devops

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"maxloyalty.com/backoffice/config"
)

const DatabasesParameter = "databases"

type DBEntry struct {
	Name     string `yaml:"name" json:"name"`
	Host     string `yaml:"host" json:"host"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// GetDSN builds username:password@tcp(host:3306)/name?parseTime=true
func (db DBEntry) GetDSN(dbname string) string {
	host := db.Host
	if !strings.Contains(host, ":") {
		host = host + ":3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true", db.Username, db.Password, host, dbname)
}

// ParameterStore is the part of the SSM client used here.
type ParameterStore interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

var (
	once      sync.Once
	ssmClient ParameterStore
	clientErr error
)

func defaultStore(ctx context.Context) (ParameterStore, error) {
	once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			clientErr = fmt.Errorf("load aws config: %w", err)
			return
		}
		ssmClient = ssm.NewFromConfig(cfg)
	})
	return ssmClient, clientErr
}

// GetParameter reads a decrypted parameter value.
func GetParameter(ctx context.Context, store ParameterStore, name string) (string, error) {
	if store == nil {
		var err error
		if store, err = defaultStore(ctx); err != nil {
			return "", err
		}
	}

	out, err := store.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s is empty", name)
	}
	return *out.Parameter.Value, nil
}

// LoadConfig reads the console YAML stored in an SSM parameter and applies
// the environment on top. A nil store uses the default AWS credentials.
func LoadConfig(ctx context.Context, store ParameterStore, name string, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	value, err := GetParameter(ctx, store, name)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Parse([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", name, err)
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabases reads the shared "databases" parameter keyed by lower-case
// name.
func LoadDatabases(ctx context.Context, store ParameterStore) (map[string]DBEntry, error) {
	value, err := GetParameter(ctx, store, DatabasesParameter)
	if err != nil {
		return nil, err
	}

	var entries []DBEntry
	if err := yaml.Unmarshal([]byte(value), &entries); err != nil {
		return nil, fmt.Errorf("unmarshal databases: %w", err)
	}

	result := make(map[string]DBEntry, len(entries))
	for _, entry := range entries {
		result[strings.ToLower(entry.Name)] = entry
	}
	return result, nil
}

// ResolveDSN returns the configured DSN, or builds one from the named
// entry of the databases parameter.
func ResolveDSN(ctx context.Context, store ParameterStore, db config.Database) (string, error) {
	if db.DSN != "" {
		return db.DSN, nil
	}
	if db.Entry == "" {
		return "", fmt.Errorf("database: neither dsn nor entry configured")
	}
	entries, err := LoadDatabases(ctx, store)
	if err != nil {
		return "", err
	}
	entry, ok := entries[strings.ToLower(db.Entry)]
	if !ok {
		return "", fmt.Errorf("database entry %q not found in parameter store", db.Entry)
	}
	return entry.GetDSN(db.Schema), nil
}

// ResolveConfig loads the configuration from the SSM parameter when one is
// named, else from the file at path (or the defaults).
func ResolveConfig(ctx context.Context, path, parameter string) (*config.Config, error) {
	if parameter != "" {
		return LoadConfig(ctx, nil, parameter, os.LookupEnv)
	}
	return config.Load(path)
}
