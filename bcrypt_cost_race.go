//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// DefaultPasswordCost is the work factor when none is configured
const DefaultPasswordCost = bcrypt.MinCost

func passwordHashCost() int {
	// race builds keep the suite inside strict timeouts
	return DefaultPasswordCost
}
