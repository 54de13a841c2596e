package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/securematch/internal/client/access"
	"github.com/dmitrijs2005/securematch/internal/client/config"
	"github.com/dmitrijs2005/securematch/internal/client/models"
	"github.com/dmitrijs2005/securematch/internal/client/output"
	"github.com/dmitrijs2005/securematch/internal/client/services"
	"github.com/dmitrijs2005/securematch/internal/common"
	"github.com/dmitrijs2005/securematch/internal/cryptox"
)

// Indirections swapped in tests.
var (
	getSimpleText = GetSimpleText
	getSecretLine = GetSecretLine
)

type App struct {
	config   *config.Config
	machine  *access.Machine
	search   services.SearchService
	auditors services.AuditorService
	printer  *output.Printer
	reader   *bufio.Reader
	prompts  io.Writer
}

func NewApp(c *config.Config, m *access.Machine, ss services.SearchService, as services.AuditorService, p *output.Printer, r *bufio.Reader) *App {
	return &App{config: c, machine: m, search: ss, auditors: as, printer: p, reader: r, prompts: p.Out()}
}

// Run starts the shell and wipes any session on exit.
func (a *App) Run(ctx context.Context) {
	defer a.machine.Logout(context.Background())

	a.printer.Info("securematch shell, server %s (type 'help' for commands)", a.config.ServerURL)
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) status() string {
	role := a.machine.State()
	if s := a.machine.Session(); s != nil {
		return fmt.Sprintf("(%s:%s)", role, s.Auditor().ID)
	}
	return fmt.Sprintf("(%s)", role)
}

func (a *App) Report(err error) {
	var qe *models.QueryError
	switch {
	case errors.As(err, &qe):
		// The progress log already carries the terminal entry.
		if qe.Retriable() {
			a.printer.Warning("resubmit the search to retry")
		}
	case errors.Is(err, errUsage):
		a.printer.Warning("%v", err)
	default:
		a.printer.Error("%v", err)
	}
}

func (a *App) Help() {
	role := a.machine.State()
	cmds := []string{"help", "role internal|external"}
	switch role {
	case models.RoleExternalSelecting:
		cmds = append(cmds, "auditors", "login <auditor-id>")
	case models.RoleInternal, models.RoleExternal:
		cmds = append(cmds, "auditors")
	}
	if role.Can(models.CapSearchDecrypt) {
		cmds = append(cmds, "search [field] <keyword...>", "log")
	}
	if role.Can(models.CapSearchPEKS) {
		cmds = append(cmds, "search <keyword...>", "log")
	}
	if role.Can(models.CapMetricsFull) || role.Can(models.CapMetricsLimited) {
		cmds = append(cmds, "metrics")
	}
	if role.Can(models.CapManageAuditors) {
		cmds = append(cmds, "create-auditor <name>", "delete-auditor <id>")
	}
	if role != models.RoleUnselected {
		cmds = append(cmds, "logout")
	}
	cmds = append(cmds, "exit")

	a.printer.Capabilities(role)
	a.printer.Print("commands: %s", strings.Join(cmds, ", "))
	if role.Can(models.CapSearchDecrypt) {
		fields := make([]string, 0, len(models.SearchableFields))
		for _, f := range models.SearchableFields {
			fields = append(fields, string(f))
		}
		a.printer.Print("fields: %s (default %s)", strings.Join(fields, ", "), defaultField)
	}
}

// ChooseRole leaves the current role, wiping any session, and enters the
// requested one.
func (a *App) ChooseRole(ctx context.Context, role string) error {
	a.machine.Logout(ctx)

	switch strings.ToLower(role) {
	case "internal":
		if err := a.machine.ChooseInternal(ctx); err != nil {
			return err
		}
	case "external":
		if err := a.machine.ChooseExternal(ctx); err != nil {
			return err
		}
		a.printer.Success("role %s", a.machine.State())
		a.printer.Capabilities(a.machine.State())
		return a.printAuditorChoice()
	default:
		return usage("role internal|external")
	}
	a.printer.Success("role %s", a.machine.State())
	a.printer.Capabilities(a.machine.State())
	return nil
}

func (a *App) printAuditorChoice() error {
	if err := a.machine.FetchError(); err != nil {
		a.printer.Warning("could not load auditors: %v (run 'auditors' to retry)", err)
		return nil
	}
	if err := a.printer.Auditors(a.machine.Auditors(), ""); err != nil {
		return err
	}
	a.printer.Info("choose one with: login <auditor-id>")
	return nil
}

func (a *App) Auditors(ctx context.Context) error {
	switch a.machine.State() {
	case models.RoleExternalSelecting:
		a.machine.RefreshAuditors(ctx)
		return a.printAuditorChoice()
	case models.RoleExternal:
		return a.printer.Auditors(a.machine.Auditors(), a.machine.Session().Auditor().ID)
	case models.RoleInternal:
		list, err := a.auditors.ListAuditors(ctx)
		if err != nil {
			return err
		}
		return a.printer.Auditors(list, "")
	default:
		return fmt.Errorf("%w: select role external to choose an auditor", common.ErrorUnauthorized)
	}
}

// Login reads the key for auditorID and authenticates. A key that does not
// parse is accepted with a warning; signing reports it on the next search.
func (a *App) Login(ctx context.Context, auditorID string) error {
	if a.machine.State() != models.RoleExternalSelecting {
		return fmt.Errorf("%w: run 'role external' first", access.ErrInvalidTransition)
	}
	record, err := a.machine.FindAuditor(auditorID)
	if err != nil {
		return fmt.Errorf("%w (run 'auditors' to refresh the list)", err)
	}

	entered, err := getSecretLine(a.reader, "Private key for "+record.Name+" (one line, \\n escapes allowed, or @path)", a.prompts)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(entered)

	material, err := ReadKeyMaterial(entered)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(material)

	if err := a.machine.Authenticate(ctx, record, material); err != nil {
		return err
	}

	if key, err := cryptox.ParsePrivateKey(material); err != nil {
		a.printer.Warning("%v; searches will fail until you log in again with a valid key", err)
	} else if fp, err := cryptox.PublicFingerprint(material); err == nil {
		a.printer.Print("key fingerprint %s (%s)", fp, cryptox.Algorithm(key))
	}
	a.printer.Success("authenticated as auditor %s (%s), key version %d", record.ID, record.Name, record.ActiveKeyVersion)
	return nil
}

const defaultField = models.FieldName

// parseSearchArgs consumes a leading field name when more tokens follow.
func parseSearchArgs(args []string) (models.Field, string) {
	if len(args) > 1 {
		if f, err := models.ParseField(args[0]); err == nil {
			return f, strings.Join(args[1:], " ")
		}
	}
	return defaultField, strings.Join(args, " ")
}

func (a *App) Search(ctx context.Context, args []string) error {
	role := a.machine.State()
	if !role.Can(models.CapSearchDecrypt) && !role.Can(models.CapSearchPEKS) {
		return fmt.Errorf("%w: role %s cannot search", common.ErrorUnauthorized, role)
	}

	// External keywords are hashed exactly as typed, so no token is ever
	// taken as a field name.
	q := models.SearchQuery{Role: role, RawKeyword: strings.Join(args, " ")}
	if role == models.RoleInternal {
		q.Field, q.RawKeyword = parseSearchArgs(args)
	}

	view, err := a.search.RunSearch(ctx, q, a.machine.Session())
	if err != nil {
		return err
	}
	return a.printer.Result(view)
}

func (a *App) ShowLog(ctx context.Context) error {
	id, entries := a.search.Progress()
	a.printer.Progress(id.String(), entries)
	return nil
}

func (a *App) Metrics(ctx context.Context) error {
	role := a.machine.State()
	d, err := a.auditors.Dashboard(ctx, role)
	if err != nil {
		return err
	}
	return a.printer.Dashboard(d, role)
}

// CreateAuditor prints the new private key exactly once and wipes it.
func (a *App) CreateAuditor(ctx context.Context, name string) error {
	created, err := a.auditors.Create(ctx, a.machine.State(), name)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(created.PrivateKey)

	a.printer.Success("auditor %q created (id %s)", created.Name, created.ID)
	a.printer.Warning("the private key is shown only once; store it securely")
	a.printer.Header("Private key")
	a.printer.Print("%s", strings.TrimRight(string(created.PrivateKey), "\n"))
	a.printer.Header("Single-line form for login")
	a.printer.Print("%s", strings.ReplaceAll(strings.TrimRight(string(created.PrivateKey), "\n"), "\n", `\n`))
	return nil
}

func (a *App) DeleteAuditor(ctx context.Context, auditorID string) error {
	if !a.machine.State().Can(models.CapManageAuditors) {
		return fmt.Errorf("%w: role %s cannot manage auditors", common.ErrorUnauthorized, a.machine.State())
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete auditor %s? Type the id again to confirm", auditorID), a.prompts)
	if err != nil {
		return err
	}
	if answer != auditorID {
		a.printer.Info("cancelled")
		return nil
	}
	if err := a.auditors.Delete(ctx, a.machine.State(), auditorID); err != nil {
		return err
	}
	a.printer.Success("auditor %s deleted", auditorID)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.machine.Logout(ctx)
	a.printer.Success("logged out, key material discarded")
	return nil
}
