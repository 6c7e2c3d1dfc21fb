// Package certs 准备 HTTPS 使用的证书，缺失时生成自签证书
package certs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pink-tide/pkg/config"

	"github.com/rs/zerolog/log"
)

const (
	DefaultCertDir = "certs"
	certFileName   = "cert.pem"
	keyFileName    = "key.pem"
	validFor       = 365 * 24 * time.Hour
)

// Result 最终使用的证书路径，Generated 表示本次新生成
type Result struct {
	CertFile  string
	KeyFile   string
	Generated bool
}

// Ensure 优先使用已有证书，未配置文件时使用 cert_dir 下的 cert.pem / key.pem，
// 文件不存在则为 host 生成自签证书
func Ensure(cfg config.TLSConfig, host string) (Result, error) {
	certFile, keyFile := cfg.CertFile, cfg.KeyFile
	if certFile == "" && keyFile == "" {
		dir := cfg.CertDir
		if dir == "" {
			dir = DefaultCertDir
		}
		certFile = filepath.Join(dir, certFileName)
		keyFile = filepath.Join(dir, keyFileName)
	}

	if fileExists(certFile) && fileExists(keyFile) {
		log.Info().Str("cert_file", certFile).Str("key_file", keyFile).Msg("[certs] 使用已有证书")
		return Result{CertFile: certFile, KeyFile: keyFile}, nil
	}

	for _, dir := range []string{filepath.Dir(certFile), filepath.Dir(keyFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("创建证书目录失败: %w", err)
		}
	}

	certPEM, keyPEM, err := generateSelfSigned(Hosts(host))
	if err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(certFile, certPEM, 0o644); err != nil {
		return Result{}, fmt.Errorf("写入证书失败: %w", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0o600); err != nil {
		return Result{}, fmt.Errorf("写入私钥失败: %w", err)
	}

	log.Warn().Str("cert_file", certFile).Str("key_file", keyFile).Msg("[certs] 已生成自签证书，浏览器会提示不受信任")
	return Result{CertFile: certFile, KeyFile: keyFile, Generated: true}, nil
}

// Hosts 证书覆盖的主机名，未指定或监听全部地址时使用本机地址
func Hosts(host string) []string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		return []string{"localhost", "127.0.0.1", "::1"}
	}
	return []string{host}
}

func generateSelfSigned(hosts []string) ([]byte, []byte, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("生成序列号失败: %w", err)
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("生成私钥失败: %w", err)
	}

	now := time.Now()
	tmpl := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: hosts[0], Organization: []string{"PinkTide"}},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(validFor),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("生成证书失败: %w", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	return certPEM, keyPEM, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
