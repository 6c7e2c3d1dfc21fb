package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"

	"pink-tide/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureGeneratesThenReuses(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")

	res, err := Ensure(config.TLSConfig{CertDir: dir}, "")
	require.NoError(t, err)
	assert.True(t, res.Generated)
	assert.Equal(t, filepath.Join(dir, "cert.pem"), res.CertFile)
	assert.Equal(t, filepath.Join(dir, "key.pem"), res.KeyFile)

	pair, err := tls.LoadX509KeyPair(res.CertFile, res.KeyFile)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	require.NoError(t, err)
	assert.Contains(t, leaf.DNSNames, "localhost")
	require.NoError(t, leaf.VerifyHostname("127.0.0.1"))

	info, err := os.Stat(res.KeyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// 再次调用直接复用
	again, err := Ensure(config.TLSConfig{CertDir: dir}, "")
	require.NoError(t, err)
	assert.False(t, again.Generated)
	assert.Equal(t, res, Result{CertFile: again.CertFile, KeyFile: again.KeyFile, Generated: true})
}

func TestEnsureExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TLSConfig{
		CertFile: filepath.Join(dir, "a", "server.crt"),
		KeyFile:  filepath.Join(dir, "b", "server.key"),
	}

	res, err := Ensure(cfg, "pt.example.com:443")
	require.NoError(t, err)
	assert.True(t, res.Generated)
	assert.Equal(t, cfg.CertFile, res.CertFile)

	pair, err := tls.LoadX509KeyPair(res.CertFile, res.KeyFile)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"pt.example.com"}, leaf.DNSNames)
}

func TestHosts(t *testing.T) {
	local := []string{"localhost", "127.0.0.1", "::1"}
	assert.Equal(t, local, Hosts(""))
	assert.Equal(t, local, Hosts(":8443"))
	assert.Equal(t, local, Hosts("0.0.0.0:8443"))
	assert.Equal(t, []string{"10.0.0.2"}, Hosts("10.0.0.2:8443"))
	assert.Equal(t, []string{"pt.example.com"}, Hosts("pt.example.com"))
}
