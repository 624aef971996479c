package cache

import (
	"crypto/tls"
	"net"
)

func newTLSConfig(address string) *tls.Config {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: host,
	}
}
