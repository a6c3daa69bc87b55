package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/ppmalta/AgroIPA/internal/auth"
	"github.com/ppmalta/AgroIPA/internal/constants"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint  string
		refreshToken string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to AgroIPA",
		Long:  "Store a refresh token and validate it against the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				config := loadConfig()
				apiEndpoint = config.API
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("API endpoint: ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
			}

			if apiEndpoint == "" {
				return ErrAPIEndpointRequired
			}

			apiEndpoint = strings.TrimSuffix(apiEndpoint, "/")
			if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
				apiEndpoint = "https://" + apiEndpoint
			}

			if refreshToken == "" {
				fmt.Print("Refresh token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("reading refresh token: %w", err)
				}

				refreshToken = strings.TrimSpace(string(byteToken))

				fmt.Println()
			}

			if refreshToken == "" {
				return ErrRefreshTokenNeeded
			}

			// Validate by exchanging the refresh token once before saving.
			manager := auth.NewRefreshTokenManager(&auth.RefreshConfig{
				TokenURL:     apiEndpoint + "/token/refresh/",
				RefreshToken: refreshToken,
			})

			ctx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
			defer cancel()

			if err := manager.RefreshToken(ctx); err != nil {
				return fmt.Errorf("validating refresh token: %w", err)
			}

			accessToken, err := manager.GetToken(ctx)
			if err != nil {
				return fmt.Errorf("reading access token: %w", err)
			}

			config := loadConfig()
			config.API = apiEndpoint
			config.AccessToken = accessToken
			config.RefreshToken = refreshToken

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Printf("Logged in to %s\n", apiEndpoint)

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL")
	cmd.Flags().StringVarP(&refreshToken, "refresh-token", "r", "", "refresh token (prompted if omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and clear saved tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.AccessToken = ""
			config.RefreshToken = ""

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Println("Logged out")

			return nil
		},
	}
}
