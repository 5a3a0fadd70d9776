// Command catalogctl manages the product catalog from a terminal through
// the same list and form state the web front-end uses.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/rogerio-castellano/product-catalog/internal/client"
	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/products"
	"github.com/rogerio-castellano/product-catalog/internal/toast"
)

const usage = `usage: catalogctl [-config file] [-url base-url] [-token jwt] <command> [flags]

commands:
  list    [-search term] [-page-size n] [-newest-first]
  get     <id>
  create  -id id -name name -description text -logo url -date-release YYYY-MM-DD
  update  <id> [-name name] [-description text] [-logo url] [-date-release YYYY-MM-DD]
  delete  <id> [-yes]
  verify  <id>
  login   -user name -password secret
`

type app struct {
	repo     *client.Client
	notifier *toast.Notifier
	log      logging.Logger
	out      io.Writer
	in       io.Reader
}

func main() {
	global := flag.NewFlagSet("catalogctl", flag.ExitOnError)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configFile := global.String("config", "", "path to a YAML or JSON config file")
	baseURL := global.String("url", "", "API base url, overrides client.base_url")
	token := global.String("token", "", "bearer token, overrides client.token")
	_ = global.Parse(os.Args[1:])

	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	loader, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := loader.Get()
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Client.Token = *token
	}

	log, _ := logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	a := newApp(cfg.Client, log, os.Stdout, os.Stdin)
	defer a.notifier.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, global.Arg(0), global.Args()[1:]); err != nil {
		if !errors.Is(err, products.ErrInvalidForm) {
			fmt.Fprintln(os.Stderr, "error:", client.Message(err))
		}
		os.Exit(1)
	}
}

func newApp(cfg config.ClientConfig, log logging.Logger, out io.Writer, in io.Reader) *app {
	c := client.New(cfg.BaseURL, client.WithLogger(log), client.WithToken(cfg.Token))
	a := &app{repo: c, notifier: toast.NewNotifier(), log: log, out: out, in: in}
	a.printToasts()
	return a
}

// printToasts writes every new toast once.
func (a *app) printToasts() {
	var mu sync.Mutex
	seen := map[int]bool{}
	a.notifier.Subscribe(func(ts []toast.Toast) {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range ts {
			if !seen[t.ID] {
				seen[t.ID] = true
				fmt.Fprintf(a.out, "[%s] %s\n", t.Type, t.Message)
			}
		}
	})
}

func (a *app) navigator() products.Navigator {
	return products.NavigatorFunc(func(path string) {
		a.log.Debug(context.Background(), "navigate", "path", path)
	})
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		return a.list(ctx, args)
	case "get":
		return a.get(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "verify":
		return a.verify(ctx, args)
	case "login":
		return a.login(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	search := fs.String("search", "", "filter by name or description")
	pageSize := fs.Int("page-size", products.DefaultPageSize, "number of products to show")
	newestFirst := fs.Bool("newest-first", false, "show the latest products first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	order := products.OrderAsReturned
	if *newestFirst {
		order = products.OrderNewestFirst
	}
	s := products.NewListState(a.repo, a.notifier, a.navigator(), products.WithLogger(a.log), products.WithOrder(order))
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.Search(*search)
	if err := s.SetPageSize(*pageSize); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tDESCRIPCIÓN\tLIBERACIÓN\tREVISIÓN")
	for _, p := range s.Paginated.Get() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			products.Highlight(p.Name, *search),
			products.Highlight(p.Description, *search),
			p.DateRelease.Display(),
			p.DateRevision.Display(),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d Resultados\n", s.Total.Get())
	return nil
}

func (a *app) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("get needs exactly one product id")
	}
	f := products.NewFormState(a.repo, a.notifier, a.navigator(), args[0], products.WithLogger(a.log))
	defer f.Close()

	if err := f.Activate(ctx); err != nil {
		return err
	}
	a.printValues(f.Values.Get())
	return nil
}

type productFlags struct {
	fs          *flag.FlagSet
	id          *string
	name        *string
	description *string
	logo        *string
	release     *string
}

func newProductFlags(name string, withID bool) productFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	pf := productFlags{
		fs:          fs,
		name:        fs.String("name", "", "product name"),
		description: fs.String("description", "", "product description"),
		logo:        fs.String("logo", "", "logo url"),
		release:     fs.String("date-release", "", "release date, YYYY-MM-DD"),
	}
	if withID {
		pf.id = fs.String("id", "", "product id")
	}
	return pf
}

// apply sets every flag the user passed.
func (pf productFlags) apply(f *products.FormState) error {
	var err error
	pf.fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "id":
			err = f.Set(products.FieldID, *pf.id)
		case "name":
			err = f.Set(products.FieldName, *pf.name)
		case "description":
			err = f.Set(products.FieldDescription, *pf.description)
		case "logo":
			err = f.Set(products.FieldLogo, *pf.logo)
		case "date-release":
			err = f.Set(products.FieldDateRelease, *pf.release)
		}
	})
	return err
}

func (a *app) create(ctx context.Context, args []string) error {
	pf := newProductFlags("create", true)
	if err := pf.fs.Parse(args); err != nil {
		return err
	}

	f := products.NewFormState(a.repo, a.notifier, a.navigator(), "", products.WithLogger(a.log))
	defer f.Close()
	if err := pf.apply(f); err != nil {
		return err
	}
	return a.submit(ctx, f)
}

func (a *app) update(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errors.New("update needs a product id first")
	}
	id := args[0]
	pf := newProductFlags("update", false)
	if err := pf.fs.Parse(args[1:]); err != nil {
		return err
	}

	f := products.NewFormState(a.repo, a.notifier, a.navigator(), id, products.WithLogger(a.log))
	defer f.Close()
	if err := f.Activate(ctx); err != nil {
		return err
	}
	if err := pf.apply(f); err != nil {
		return err
	}
	return a.submit(ctx, f)
}

func (a *app) submit(ctx context.Context, f *products.FormState) error {
	err := f.Submit(ctx)
	if errors.Is(err, products.ErrInvalidForm) {
		for _, field := range products.Fields {
			for _, failure := range f.Errors(field) {
				fmt.Fprintf(a.out, "%s: %s\n", field, failure.Message)
			}
		}
	}
	return err
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errors.New("delete needs a product id first")
	}
	id := args[0]
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	s := products.NewListState(a.repo, a.notifier, a.navigator(), products.WithLogger(a.log))
	if err := s.Load(ctx); err != nil {
		return err
	}

	var target *models.Product
	for _, p := range s.Products.Get() {
		if p.ID == id {
			target = &p
			break
		}
	}
	if target == nil {
		return client.Translate(404, nil)
	}

	if err := s.RequestDelete(*target); err != nil {
		return err
	}
	if !*yes && !a.confirm(fmt.Sprintf("¿Estás seguro de eliminar el producto %s? [s/N] ", target.Name)) {
		s.CancelDelete()
		fmt.Fprintln(a.out, "cancelado")
		return nil
	}
	return s.ConfirmDelete(ctx)
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.out, prompt)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

func (a *app) verify(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("verify needs exactly one product id")
	}
	exists, err := a.repo.VerifyID(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, exists)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	user := fs.String("user", "admin", "username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.repo.Login(ctx, *user, *password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}

func (a *app) printValues(v products.Values) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, field := range products.Fields {
		fmt.Fprintf(tw, "%s\t%s\n", field, v.Get(field))
	}
	_ = tw.Flush()
}
