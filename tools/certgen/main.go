// Package main generates a self-signed TLS certificate and key for running
// the storefront gateway over HTTPS locally. Point the gateway's TLS_CERT and
// TLS_KEY settings at the generated files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arvachan/solestore/internal/certgen"
)

func main() {
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated hostnames and IPs for the certificate")
	dir := flag.String("out", "certs", "output directory for cert.pem and key.pem")
	flag.Parse()

	if err := run(*hosts, *dir); err != nil {
		fmt.Fprintln(os.Stderr, "certgen:", err)
		os.Exit(1)
	}
}

func run(hosts, dir string) error {
	var names []string
	for _, h := range strings.Split(hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	certPEM, keyPEM, err := certgen.GenerateServerCertificate(names)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	if err := certgen.WriteCertAndKey(certPath, keyPath, certPEM, keyPEM); err != nil {
		return err
	}

	fmt.Printf("wrote %s and %s\n", certPath, keyPath)
	return nil
}
