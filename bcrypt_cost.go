//go:build !race

package auth

// DefaultPasswordCost is the work factor when none is configured
const DefaultPasswordCost = 10

func passwordHashCost() int {
	return DefaultPasswordCost
}
