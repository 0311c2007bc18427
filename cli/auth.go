package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
)

func (a *App) cmdLogin(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *email == "" || *password == "" {
		fmt.Println("login requires -email and -password")
		return 2
	}

	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		log.Printf("login: %v", err)
		fmt.Println("Sign-in failed. Check your email and password, then try again.")
		return 1
	}

	fmt.Printf("Signed in as %s (%s)\n", user.FullName, user.Email)
	return 0
}

func (a *App) cmdLogout(ctx context.Context) int {
	if _, err := a.session.Bootstrap(ctx); err != nil {
		log.Printf("session restore: %v", err)
	}
	a.session.Logout(ctx)
	fmt.Println("Signed out")
	return 0
}

func (a *App) cmdProfile(ctx context.Context) int {
	if !a.requireSession(ctx) {
		return 1
	}

	user := a.session.CurrentUser()
	fmt.Printf("Name:  %s\n", user.FullName)
	fmt.Printf("Email: %s\n", user.Email)
	if user.Phone != "" {
		fmt.Printf("Phone: %s\n", user.Phone)
	}
	return 0
}
