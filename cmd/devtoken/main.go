// Command devtoken mints a session token signed with the configured secret,
// for exercising the API without the institution backend.
//
//	devtoken -user 42 -role student -class CSE-A -name Asha
package main

import (
	"flag"
	"fmt"
	"os"

	"prezz/config"
	"prezz/internal/session"
	"prezz/pkg/jwt"
)

func main() {
	var (
		cfgPath = flag.String("config", os.Getenv("PREZZ_CONFIG"), "config file")
		userID  = flag.String("user", "", "backend user id")
		role    = flag.String("role", session.RoleStudent, "student | cr | elective_cr")
		class   = flag.String("class", "", "class code")
		name    = flag.String("name", "", "display name")
	)
	flag.Parse()

	if *userID == "" || *class == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(*userID, *role, *class, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
