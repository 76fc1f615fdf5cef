package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"axiapac.com/timesheets/security"
)

func main() {
	userName := flag.String("user", "admin", "user name to put in the token")
	empNumber := flag.Int("number", 0, "employee number")
	role := flag.String("role", "ADMIN", "role claim")
	expires := flag.Int64("expires", 8*3600, "lifetime in seconds")
	flag.Parse()

	secret := os.Getenv("TIMESHEETS_SECRET")
	if secret == "" {
		log.Fatal("TIMESHEETS_SECRET is not set")
	}

	identity := security.Identity{
		UserName:  *userName,
		EmpNumber: *empNumber,
		Role:      *role,
	}
	token, err := security.CreateIdentityToken(&identity, secret, *expires)
	if err != nil {
		log.Fatalf("create token: %v", err)
	}
	fmt.Println(token)
}
