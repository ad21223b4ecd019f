package options

import (
	"github.com/spf13/cobra"
)

// AuthOptions carry credentials. Anything left empty is prompted for.
type AuthOptions struct {
	Username string
	Email    string
	Password string
}

func AddLoginArgs(cmd *cobra.Command, o *AuthOptions) {
	cmd.Flags().StringVarP(&o.Email, "email", "e", "",
		"Account email address.")
	cmd.Flags().StringVarP(&o.Password, "password", "p", "",
		"Account password. Prompted without echo when omitted.")
}

func AddRegisterArgs(cmd *cobra.Command, o *AuthOptions) {
	AddLoginArgs(cmd, o)
	cmd.Flags().StringVarP(&o.Username, "username", "u", "",
		"Display name for the new account.")
}
