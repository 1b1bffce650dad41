package commands

import (
	"errors"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/core/session"
)

// prompter reads answers from the user.
type prompter interface {
	Select(message string, options []string, def string) (string, error)
	Input(message, def string) (string, error)
	Password(message string) (string, error)
}

// surveyPrompter prompts on the terminal.
type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string, def string) (string, error) {
	var answer string
	prompt := &survey.Select{Message: message, Options: options}
	if def != "" {
		prompt.Default = def
	}
	err := survey.AskOne(prompt, &answer)
	return answer, err
}

func (surveyPrompter) Input(message, def string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message, Default: def}, &answer)
	return answer, err
}

func (surveyPrompter) Password(message string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Password{Message: message}, &answer)
	return answer, err
}

// isCancel reports whether err means the user left the prompt.
func isCancel(err error) bool {
	return errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF)
}

// runPanel asks for the connection fields, prefilled from the loaded
// configuration, and returns the connect request. Answers are written back
// into the configuration so "config save" and reconnects see them.
// Secrets cannot be prefilled; an empty answer keeps the configured value.
func (a *app) runPanel() (session.ConnectRequest, error) {
	db := &a.cfg.Database

	if db.URL != "" {
		a.printer.Info("Using connection string %s", database.Redact(db.URL))
		credential, err := a.askSecret("OpenAI API key", a.cfg.OpenAI.APIKey)
		if err != nil {
			return session.ConnectRequest{}, err
		}
		a.cfg.OpenAI.APIKey = credential
		return session.ConnectRequest{URI: db.URL, Credential: credential}, nil
	}

	options := make([]string, 0, len(database.Kinds()))
	for _, k := range database.Kinds() {
		options = append(options, k.String())
	}
	def := ""
	if k, err := database.ParseKind(db.Kind); err == nil {
		def = k.String()
	}

	answer, err := a.prompt.Select("Database type", options, def)
	if err != nil {
		return session.ConnectRequest{}, err
	}
	kind, err := database.ParseKind(answer)
	if err != nil {
		return session.ConnectRequest{}, err
	}
	db.Kind = kind.String()

	if kind == database.KindSQLite {
		if db.Path, err = a.prompt.Input("Database file path", db.Path); err != nil {
			return session.ConnectRequest{}, err
		}
	} else {
		if db.Host, err = a.prompt.Input("Host", db.Host); err != nil {
			return session.ConnectRequest{}, err
		}
		if db.User, err = a.prompt.Input("User", db.User); err != nil {
			return session.ConnectRequest{}, err
		}
		if db.Password, err = a.askSecret("Password", db.Password); err != nil {
			return session.ConnectRequest{}, err
		}
		if db.Name, err = a.prompt.Input("Database name", db.Name); err != nil {
			return session.ConnectRequest{}, err
		}
		if db.Port, err = a.prompt.Input("Port", db.Port); err != nil {
			return session.ConnectRequest{}, err
		}
	}

	credential, err := a.askSecret("OpenAI API key", a.cfg.OpenAI.APIKey)
	if err != nil {
		return session.ConnectRequest{}, err
	}
	a.cfg.OpenAI.APIKey = credential

	return session.ConnectRequest{
		Kind:       kind,
		Fields:     a.fields(),
		Credential: credential,
	}, nil
}

func (a *app) askSecret(message, current string) (string, error) {
	if current != "" {
		message += " (leave empty to keep current)"
	}
	answer, err := a.prompt.Password(message)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}
