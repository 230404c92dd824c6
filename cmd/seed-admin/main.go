// Command seed-admin creates or updates the operator allowed to manage
// settings profiles and read the audit log.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/playmatatu/spinball/internal/admin"
	"github.com/playmatatu/spinball/internal/config"
	"github.com/playmatatu/spinball/internal/database"
)

const minTokenLength = 16

// operator is one admin_accounts row before hashing.
type operator struct {
	Phone      string
	Name       string
	Token      string
	AllowedIPs []string
}

func parseOperator(phone, name, token, ips string) (operator, error) {
	normalized, err := admin.NormalizePhone(phone)
	if err != nil {
		return operator{}, err
	}
	if len(token) < minTokenLength {
		return operator{}, fmt.Errorf("token must be at least %d characters", minTokenLength)
	}
	if strings.TrimSpace(name) == "" {
		name = "Operator"
	}

	op := operator{Phone: normalized, Name: strings.TrimSpace(name), Token: token, AllowedIPs: []string{}}
	for _, entry := range strings.Split(ips, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if net.ParseIP(entry) == nil {
			if _, _, err := net.ParseCIDR(entry); err != nil {
				return operator{}, fmt.Errorf("allowed ip %q is neither an address nor a CIDR block", entry)
			}
		}
		op.AllowedIPs = append(op.AllowedIPs, entry)
	}
	return op, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	phone := flag.String("phone", os.Getenv("ADMIN_PHONE"), "operator phone number")
	name := flag.String("name", os.Getenv("ADMIN_NAME"), "display name shown in the audit log")
	token := flag.String("token", os.Getenv("ADMIN_TOKEN"), "plain admin token, stored bcrypt-hashed")
	ips := flag.String("allow-ips", os.Getenv("ADMIN_ALLOWED_IPS"), "comma-separated addresses or CIDR blocks, empty for any")
	flag.Parse()

	op, err := parseOperator(*phone, *name, *token, *ips)
	if err != nil {
		log.Fatalf("[ADMIN] %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("[ADMIN] DATABASE_URL is required")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	roles := []string{"profile_admin"}
	if err := admin.CreateAdminAccount(db, op.Phone, op.Name, op.Token, roles, op.AllowedIPs); err != nil {
		log.Fatalf("[ADMIN] Failed to save operator %s: %v", op.Phone, err)
	}

	log.Printf("[ADMIN] Operator %s (%s) saved with roles %v", op.Name, op.Phone, roles)
	if len(op.AllowedIPs) > 0 {
		log.Printf("[ADMIN] Requests accepted only from %v", op.AllowedIPs)
	}
	log.Printf("[ADMIN] Authenticate with X-Admin-Phone: %s and the token you supplied", op.Phone)
}
