package command

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/pkg/types"
)

// AccountCommandConfig wires dependencies for account commands.
type AccountCommandConfig struct {
	Accounts types.AccountRepository
	Profiles types.ProfileRepository
	Cache    *cache.Coordinator
	Logger   types.Logger
}

// AccountAuthenticateInput captures an external identity that signed in.
// Name and Email seed the profile created for a first-time account.
type AccountAuthenticateInput struct {
	Provider string
	Username string
	Name     string
	Email    string
	Result   *types.AccountResult
}

// Type implements gocommand.Message.
func (AccountAuthenticateInput) Type() string {
	return "command.account.authenticate"
}

// Validate implements gocommand.Message.
func (input AccountAuthenticateInput) Validate() error {
	if strings.TrimSpace(input.Provider) == "" {
		return types.ErrProviderRequired
	}
	if strings.TrimSpace(input.Username) == "" {
		return types.ErrUsernameRequired
	}
	return validation.ValidateStruct(&input,
		validation.Field(&input.Email, is.EmailFormat),
	)
}

// AccountAuthenticateCommand resolves or creates the account for an
// identity. New accounts start with a hidden profile.
type AccountAuthenticateCommand struct {
	accounts types.AccountRepository
	profiles types.ProfileRepository
	cache    *cache.Coordinator
	logger   types.Logger
}

// NewAccountAuthenticateCommand constructs the authenticate handler.
func NewAccountAuthenticateCommand(cfg AccountCommandConfig) *AccountAuthenticateCommand {
	return &AccountAuthenticateCommand{
		accounts: cfg.Accounts,
		profiles: cfg.Profiles,
		cache:    cfg.Cache,
		logger:   safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[AccountAuthenticateInput] = (*AccountAuthenticateCommand)(nil)

// Execute returns the canonical account. Only the stored account is ever
// cached, never the locally built candidate.
func (c *AccountAuthenticateCommand) Execute(ctx context.Context, input AccountAuthenticateInput) error {
	if c.accounts == nil {
		return commandError(types.ErrMissingAccountRepository, "go-mentors: authentication unavailable")
	}
	if c.profiles == nil {
		return commandError(types.ErrMissingProfileRepository, "go-mentors: authentication unavailable")
	}
	if err := input.Validate(); err != nil {
		return commandError(err, "go-mentors: invalid authentication request")
	}

	if c.cache != nil {
		account, ok, err := c.cache.GetAccount(ctx, input.Provider, input.Username)
		if err != nil {
			c.logger.Error("account cache read failed", err, "provider", input.Provider)
		} else if ok {
			if input.Result != nil {
				*input.Result = types.AccountResult{Account: account}
			}
			return nil
		}
	}

	result, err := c.accounts.GetOrCreate(ctx, input.Provider, input.Username)
	if err != nil {
		return commandError(err, "go-mentors: authentication failed")
	}

	if result.IsNew {
		profile := types.Profile{ID: result.Account.ProfileID}
		profile.Name = strings.TrimSpace(input.Name)
		profile.Email = strings.TrimSpace(input.Email)
		profile.Status = types.ProfileStatusHidden
		if _, err := c.profiles.Upsert(ctx, profile); err != nil {
			return commandError(err, "go-mentors: authentication failed")
		}
		c.logger.Info("account created",
			"account_id", result.Account.ID,
			"profile_id", result.Account.ProfileID,
		)
	}

	if c.cache != nil {
		if err := c.cache.StoreAccount(ctx, result.Account); err != nil {
			c.logger.Error("account cache store failed", err, "account_id", result.Account.ID)
		}
	}
	if input.Result != nil {
		*input.Result = *result
	}
	return nil
}
