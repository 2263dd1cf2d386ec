package cli

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/splitdeck/splitdeck/internal/infrastructure/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token for a user",
	Long: `Mint a signed bearer token for calling the dashboard API.

The token is signed with SPLITDECK_JWT_SECRET and carries the user ID as
its subject.

Examples:
  splitdeck token --user user-123
  splitdeck token --user user-123 --ttl 72h`,
	RunE: runToken,
}

var (
	tokenUser string
	tokenTTL  time.Duration
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "User ID to mint the token for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAuth()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   tokenUser,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})

	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Println(signed)
	return nil
}
