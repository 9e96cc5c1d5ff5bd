package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dvasava/portfolio/internal/contact"
)

type submitOptions struct {
	msg        contact.Message
	backendURL string
	timeout    time.Duration
}

func newSubmitCmd(a *app) *cobra.Command {
	var o submitOptions
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send one contact message through the contact flow",
		Long: `submit fills a contact form with the given fields and submits it once,
printing the same status line the site shows.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("backend-url") {
				o.backendURL = a.cfg.LocalBackendURL()
			}
			if !cmd.Flags().Changed("timeout") {
				o.timeout = a.cfg.SubmitTimeout
			}
			return a.submit(cmd, o)
		},
	}
	cmd.Flags().StringVarP(&o.msg.Name, "name", "n", "", "sender name")
	cmd.Flags().StringVarP(&o.msg.Email, "email", "e", "", "sender email")
	cmd.Flags().StringVarP(&o.msg.Message, "message", "m", "", "message body")
	cmd.Flags().StringVar(&o.backendURL, "backend-url", "", "contact backend base URL (overrides BACKEND_URL)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", contact.DefaultTimeout, "attempt timeout, 0 waits forever")
	return cmd
}

func (a *app) submit(cmd *cobra.Command, o submitOptions) error {
	if err := contact.Validate(o.msg); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	f := contact.NewFlow(contact.NewClient(o.backendURL, nil),
		contact.WithTimeout(o.timeout),
		contact.WithLogger(a.log))
	f.UpdateField(contact.FieldName, o.msg.Name)
	f.UpdateField(contact.FieldEmail, o.msg.Email)
	f.UpdateField(contact.FieldMessage, o.msg.Message)

	err := f.Submit(cmd.Context())

	attr := contact.Display(f.View())
	out := cmd.OutOrStdout()
	if f.View().State == contact.StateSucceeded {
		fmt.Fprintln(out, color.Green.Sprint(attr.StatusText))
		return nil
	}
	fmt.Fprintln(out, color.Red.Sprint(attr.StatusText))
	return errors.Join(errSubmitFailed, err)
}

var errSubmitFailed = errors.New("contact submission failed")
