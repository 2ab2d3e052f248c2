package devops

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maxloyalty.com/backoffice/config"
)

type fakeStore map[string]string

func (f fakeStore) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	v, ok := f[aws.ToString(in.Name)]
	if !ok {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(v)}}, nil
}

func noEnv(string) (string, bool) { return "", false }

func TestLoadConfigFromParameter(t *testing.T) {
	store := fakeStore{"/maxloyalty/console": "api:\n  baseUrl: https://api.maxloyalty.mx\n"}

	cfg, err := LoadConfig(context.Background(), store, "/maxloyalty/console", noEnv)
	require.NoError(t, err)
	assert.Equal(t, "https://api.maxloyalty.mx", cfg.API.BaseURL)

	_, err = LoadConfig(context.Background(), store, "/missing", noEnv)
	assert.Error(t, err)
}

func TestResolveDSN(t *testing.T) {
	store := fakeStore{DatabasesParameter: `
- name: Dev
  host: db.local
  username: root
  password: pw
`}
	ctx := context.Background()

	dsn, err := ResolveDSN(ctx, store, config.Database{DSN: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", dsn)

	dsn, err = ResolveDSN(ctx, store, config.Database{Entry: "dev", Schema: "maxloyalty"})
	require.NoError(t, err)
	assert.Equal(t, "root:pw@tcp(db.local:3306)/maxloyalty?charset=utf8mb4&parseTime=true", dsn)

	_, err = ResolveDSN(ctx, store, config.Database{Entry: "prod"})
	assert.Error(t, err)

	_, err = ResolveDSN(ctx, store, config.Database{})
	assert.Error(t, err)
}
