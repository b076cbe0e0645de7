package app

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/console"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/errs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, s *Storefront, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":     {"help", "list commands", cmdHelp},
		"catalog":  {"catalog [query]", "list workflows, optionally filtered by name", cmdCatalog},
		"select":   {"select <id>", "choose a workflow to buy", cmdSelect},
		"selected": {"selected", "show the chosen workflow", cmdSelected},
		"buy":      {"buy", "pay for the chosen workflow", cmdBuy},
		"buy-all":  {"buy-all", "pay for the All Access Pass", cmdBuyAll},
		"dismiss":  {"dismiss", "close the purchase dialog and drop the selection", cmdDismiss},
		"request":  {"request", "ask for a custom workflow", cmdRequest},
		"login":    {"login", "sign in", cmdLogin},
		"register": {"register", "create an account", cmdRegister},
		"logout":   {"logout", "sign out", cmdLogout},
		"whoami":   {"whoami", "show the signed-in user", cmdWhoami},
		"refresh":  {"refresh", "reload the catalog and your profile", cmdRefresh},
		"support":  {"support", "show support contacts", cmdSupport},
	}
}

var validate = validator.New()

func cmdHelp(_ context.Context, s *Storefront, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := commands[name]
		s.console.Printf("  %-16s %s\n", c.usage, c.help)
	}
	s.console.Printf("  %-16s %s\n", "quit", "leave the storefront")
	return nil
}

func cmdCatalog(_ context.Context, s *Storefront, args []string) error {
	var selected *int64
	if item, ok := s.selection.Current(); ok {
		selected = &item.ID
	}
	s.console.Catalog(s.selection.Visible(strings.Join(args, " ")), selected, s.cfg.Pricing.Currency)
	return nil
}

func cmdSelect(ctx context.Context, s *Storefront, args []string) error {
	if len(args) != 1 {
		return errs.Validation("Usage: select <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errs.Validation("Workflow ids are numbers, see `catalog`")
	}

	s.purchaseModal.Open()
	s.selection.Select(id)
	return cmdSelected(ctx, s, nil)
}

func cmdSelected(_ context.Context, s *Storefront, _ []string) error {
	item, ok := s.selection.Current()
	if !ok {
		s.console.Println("No workflow selected.")
		return nil
	}
	s.console.Printf("Selected: %s %s (%s)\n", item.Icon, item.Name, console.Money(item.Price, s.cfg.Pricing.Currency))
	return nil
}

func cmdBuy(ctx context.Context, s *Storefront, _ []string) error {
	s.purchaseModal.Open()
	s.checkout.BuySelected(ctx, s.checkoutButton, s.purchaseModal)
	return nil
}

func cmdBuyAll(ctx context.Context, s *Storefront, _ []string) error {
	s.checkout.BuyAllAccess(ctx, s.allAccessButton, nil)
	return nil
}

func cmdDismiss(_ context.Context, s *Storefront, _ []string) error {
	s.checkout.DismissPurchase(s.purchaseModal)
	return nil
}

// clearField typed at a prompt empties a field that has a default.
const clearField = "-"

// cmdRequest fills the form field by field. Values kept from a failed
// attempt are offered as defaults; an empty answer keeps the default and
// clearField removes it.
func cmdRequest(ctx context.Context, s *Storefront, _ []string) error {
	s.requestModal.Open()
	current := s.requestForm.Values()
	if current == (models.CustomRequest{}) {
		if user, ok := s.session.CurrentUser(); ok {
			current.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)
			current.Email = user.Email
			current.Phone = user.Phone
		}
	}

	fields := []struct {
		label string
		value *string
	}{
		{"Name", &current.Name},
		{"Email", &current.Email},
		{"Phone (optional)", &current.Phone},
		{"Describe the workflow", &current.Description},
		{"Use case", &current.UseCase},
		{"Budget (optional)", &current.Budget},
		{"Timeline (optional)", &current.Timeline},
	}
	if current != (models.CustomRequest{}) {
		s.console.Printf("Press enter to keep a value in brackets, %q to clear it.\n", clearField)
	}
	for _, f := range fields {
		label := f.label
		if *f.value != "" {
			label = fmt.Sprintf("%s [%s]", f.label, *f.value)
		}
		answer, err := s.console.Prompt(label)
		if err != nil {
			return err
		}
		switch answer {
		case "":
		case clearField:
			*f.value = ""
		default:
			*f.value = answer
		}
	}
	s.requestForm.Set(current)

	s.checkout.SubmitCustomRequest(ctx, s.requestForm, s.submitButton, s.requestModal)
	return nil
}

func cmdLogin(ctx context.Context, s *Storefront, _ []string) error {
	email, err := s.console.Prompt("Email")
	if err != nil {
		return err
	}
	password, err := s.console.PromptSecret("Password")
	if err != nil {
		return err
	}

	creds := models.Credentials{Email: email, Password: password}
	if err := validate.Var(creds.Email, "required,email"); err != nil || creds.Password == "" {
		return errs.Validation("Please enter a valid email and your password")
	}

	user, err := s.session.Login(ctx, creds)
	if err != nil {
		return err
	}
	s.console.Success(fmt.Sprintf("Welcome back, %s!", user.DisplayName()))
	return nil
}

func cmdRegister(ctx context.Context, s *Storefront, _ []string) error {
	var reg models.Registration
	prompts := []struct {
		label string
		value *string
	}{
		{"First name", &reg.FirstName},
		{"Last name", &reg.LastName},
		{"Email", &reg.Email},
		{"Phone (optional)", &reg.Phone},
	}
	for _, p := range prompts {
		answer, err := s.console.Prompt(p.label)
		if err != nil {
			return err
		}
		*p.value = answer
	}

	password, err := s.console.PromptSecret("Password (min 8 characters)")
	if err != nil {
		return err
	}
	reg.Password = password

	if err := validate.Struct(registrationForm(reg)); err != nil {
		return errs.Validation("Please provide your name, a valid email and a password of at least 8 characters")
	}

	user, signedIn, err := s.session.Register(ctx, reg)
	if err != nil {
		return err
	}
	if !signedIn {
		s.console.Success("Registration successful! Please login.")
		return nil
	}
	s.console.Success(fmt.Sprintf("Welcome, %s!", user.DisplayName()))
	return nil
}

// registrationForm carries the client-side rules for the register prompt.
type registrationForm struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string
}

func cmdLogout(_ context.Context, s *Storefront, _ []string) error {
	s.session.Logout()
	s.console.Success("You have been logged out.")
	return nil
}

func cmdWhoami(_ context.Context, s *Storefront, _ []string) error {
	user, ok := s.session.CurrentUser()
	if !ok {
		s.console.Println("Not signed in.")
		return nil
	}
	s.console.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	if user.IsAdmin {
		s.console.Println("Role: admin")
	}
	return nil
}

func cmdRefresh(ctx context.Context, s *Storefront, _ []string) error {
	if err := s.loader.Refresh(ctx); err != nil {
		return err
	}
	s.console.Printf("Catalog refreshed: %d workflows.\n", len(s.selection.Items()))

	if !s.session.IsAuthenticated() {
		return nil
	}
	if _, err := s.session.Refresh(ctx); err != nil {
		return err
	}
	return cmdWhoami(ctx, s, nil)
}

func cmdSupport(_ context.Context, s *Storefront, _ []string) error {
	if number := digits(s.cfg.Support.WhatsApp); number != "" {
		s.console.Printf("WhatsApp: https://wa.me/%s?text=%s\n", number, url.QueryEscape("Hi VexaAI, I have a question about your workflows."))
	}
	if s.cfg.Support.Email != "" {
		s.console.Printf("Email:    %s\n", s.cfg.Support.Email)
	}
	return nil
}

func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
