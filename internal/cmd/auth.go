package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/pkg/prompter"
	"github.com/zfogg/picfeed/pkg/service"
)

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with an identity provider token",
	Long: `Log in with an access token issued by the identity provider.
The token is checked against the server and saved for later commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := loginToken
		if token == "" {
			var err error
			token, err = prompter.PromptString("Token: ")
			if err != nil {
				return err
			}
		}
		if token == "" {
			return errors.New("token cannot be empty")
		}
		_, err := service.NewAuthService().Login(cmd.Context(), token)
		return err
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService().Logout()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the current token belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewAuthService().WhoAmI(cmd.Context())
		return err
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Access token (prompted for when omitted)")
}
