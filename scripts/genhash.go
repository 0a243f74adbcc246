//go:build ignore

// genhash prints bcrypt digests for manually provisioned accounts:
//
//	go run scripts/genhash.go -cost 12 admin-password other-password
package main

import (
	"flag"
	"fmt"
	"os"

	"portfolio-cms-backend/pkg/auth"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: genhash [-cost N] password...")
		os.Exit(2)
	}

	hasher := auth.NewPasswordHasher(*cost)
	for _, pass := range flag.Args() {
		hash, err := hasher.Hash(pass)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Printf("Password: %s\nHash: %s\n\n", pass, hash)
	}
}
