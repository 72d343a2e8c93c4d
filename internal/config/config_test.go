package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	cfg := Load()

	assert.Equal(t, "komoot-tours", cfg.Index)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.KomootHost)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("KMT2ES_USER_ID", "123")
	t.Setenv("KMT2ES_COOKIE", "koa_rt=aaa; kmt_sess=bbb; kmt_sess.sig=ccc")
	t.Setenv("KMT2ES_ELASTICSEARCH_HOST", "http://localhost:9200")

	cfg := Load()
	assert.Equal(t, "123", cfg.UserID)
	assert.Equal(t, "koa_rt=aaa; kmt_sess=bbb; kmt_sess.sig=ccc", cfg.Cookie)
	assert.Equal(t, "http://localhost:9200", cfg.ESHost)
	require.NoError(t, cfg.ValidateImport())
}

func TestValidateRequired(t *testing.T) {
	cfg := &Config{Workers: 1}
	err := cfg.ValidateFetch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user id")

	cfg.UserID = "123"
	err = cfg.ValidateFetch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cookie")

	cfg.Cookie = "koa_rt=aaa"
	require.NoError(t, cfg.ValidateFetch())

	err = cfg.ValidateImport()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elasticsearch host")

	cfg.ESHost = "http://localhost:9200"
	require.NoError(t, cfg.ValidateImport())
}

func TestEffectivePageSize(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 10, cfg.EffectivePageSize())

	cfg.Full = true
	assert.Equal(t, 100, cfg.EffectivePageSize())

	cfg.PageSize = 25
	assert.Equal(t, 25, cfg.EffectivePageSize())
}
