package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/sudo-init-do/cuttr/internal/config"
	"github.com/sudo-init-do/cuttr/internal/db"
	"github.com/sudo-init-do/cuttr/internal/middleware"
)

func main() {
	email := flag.String("email", "", "Email of the account to change")
	role := flag.String("role", middleware.RoleAdmin, "Role to assign (user or admin)")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run ./cmd/adminutil/promote_admin -email user@example.com [-role admin|user]")
	}
	if *role != middleware.RoleAdmin && *role != middleware.RoleUser {
		log.Fatalf("unknown role %q", *role)
	}

	db.Init(config.Load())
	defer db.Conn.Close()
	ctx := context.Background()

	var userID, current string
	err := db.Conn.QueryRow(ctx, `SELECT id::text, role FROM users WHERE email = $1`, *email).Scan(&userID, &current)
	if db.IsNoRows(err) {
		log.Fatalf("no user found with email: %s", *email)
	}
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	if current == *role {
		fmt.Printf("User %s (%s) already has role %s.\n", *email, userID, current)
		return
	}

	if _, err := db.Conn.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, *role, userID); err != nil {
		log.Fatalf("failed to update role: %v", err)
	}
	fmt.Printf("User %s (%s): %s -> %s\n", *email, userID, current, *role)
}
