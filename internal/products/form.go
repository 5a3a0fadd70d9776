package products

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/client"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/store"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

type Field string

const (
	FieldID           Field = "id"
	FieldName         Field = "name"
	FieldDescription  Field = "description"
	FieldLogo         Field = "logo"
	FieldDateRelease  Field = "date_release"
	FieldDateRevision Field = "date_revision"
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldID, FieldName, FieldDescription, FieldLogo, FieldDateRelease, FieldDateRevision}

var (
	ErrReadOnlyField    = errors.New("field is read-only")
	ErrUnknownField     = errors.New("unknown field")
	ErrInvalidForm      = errors.New("form has invalid fields")
	ErrSubmitInProgress = errors.New("submit already in progress")
)

const (
	msgCreated = "Producto agregado exitosamente"
	msgUpdated = "Producto actualizado exitosamente"
)

// Values are the raw field values of the form. Dates are YYYY-MM-DD.
type Values struct {
	ID           string
	Name         string
	Description  string
	Logo         string
	DateRelease  string
	DateRevision string
}

func (v Values) Get(f Field) string {
	switch f {
	case FieldID:
		return v.ID
	case FieldName:
		return v.Name
	case FieldDescription:
		return v.Description
	case FieldLogo:
		return v.Logo
	case FieldDateRelease:
		return v.DateRelease
	case FieldDateRevision:
		return v.DateRevision
	}
	return ""
}

func valuesOf(p models.Product) Values {
	return Values{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease.String(),
		DateRevision: p.DateRevision.String(),
	}
}

// revisionOf derives the revision field from a release field. An empty or
// unparsable release clears it.
func revisionOf(release string) string {
	d, err := models.ParseDate(release)
	if err != nil || d.IsZero() {
		return ""
	}
	return models.RevisionFor(d).String()
}

// IDCheck is the state of the asynchronous uniqueness check for Value.
type IDCheck struct {
	Value   string
	Pending bool
	Failure *validation.Failure
}

// FormState backs the create and edit pages. The mode is fixed by the
// product id given at construction: empty means create.
type FormState struct {
	repo   Repository
	toasts Notifier
	nav    Navigator
	log    logging.Logger
	now    func() time.Time

	mode      Mode
	productID string
	unique    *validation.UniqueID

	ctx    context.Context
	cancel context.CancelFunc

	Values        *store.Signal[Values]
	IDCheck       *store.Signal[IDCheck]
	IsLoading     *store.Signal[bool]
	IsLoadingData *store.Signal[bool]
	ErrorMessage  *store.Signal[string]

	mu         sync.Mutex
	ticket     uint64
	snapshot   *models.Product
	submitting atomic.Bool
}

func NewFormState(repo Repository, toasts Notifier, nav Navigator, productID string, opts ...Option) *FormState {
	o := buildOptions(opts)
	if nav == nil {
		nav = nopNavigator{}
	}

	mode := ModeCreate
	if productID != "" {
		mode = ModeEdit
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &FormState{
		repo:          repo,
		toasts:        toasts,
		nav:           nav,
		log:           o.log.With("form", mode.String()),
		now:           o.now,
		mode:          mode,
		productID:     productID,
		unique:        validation.NewUniqueID(repo, productID, o.debounce, o.log),
		ctx:           ctx,
		cancel:        cancel,
		Values:        store.NewSignal(Values{ID: productID}),
		IDCheck:       store.NewSignal(IDCheck{}),
		IsLoading:     store.NewSignal(false),
		IsLoadingData: store.NewSignal(false),
		ErrorMessage:  store.NewSignal(""),
	}
}

func (f *FormState) Mode() Mode { return f.mode }

func (f *FormState) ProductID() string { return f.productID }

// Activate loads the product in edit mode. In create mode it does nothing.
func (f *FormState) Activate(ctx context.Context) error {
	if f.mode != ModeEdit {
		return nil
	}

	f.IsLoadingData.Set(true)
	defer f.IsLoadingData.Set(false)

	p, err := f.repo.Get(ctx, f.productID)
	if err != nil {
		f.log.Error(ctx, "failed to load product", "id", f.productID, "error", err)
		f.ErrorMessage.Set(client.Message(err))
		return err
	}

	f.mu.Lock()
	f.snapshot = &p
	f.mu.Unlock()
	f.Values.Set(valuesOf(p))
	return nil
}

// Set changes one field. The revision date is derived from the release
// date and cannot be set; neither can the id in edit mode. Changing the id
// in create mode starts a uniqueness check in the background.
func (f *FormState) Set(field Field, value string) error {
	switch field {
	case FieldDateRevision:
		return fmt.Errorf("%s: %w", field, ErrReadOnlyField)
	case FieldID:
		if f.mode == ModeEdit {
			return fmt.Errorf("%s: %w", field, ErrReadOnlyField)
		}
		f.setID(value)
		return nil
	case FieldName, FieldDescription, FieldLogo, FieldDateRelease:
	default:
		return fmt.Errorf("%q: %w", field, ErrUnknownField)
	}

	f.Values.Update(func(v Values) Values {
		switch field {
		case FieldName:
			v.Name = value
		case FieldDescription:
			v.Description = value
		case FieldLogo:
			v.Logo = value
		case FieldDateRelease:
			v.DateRelease = value
			v.DateRevision = revisionOf(value)
		}
		return v
	})
	return nil
}

func (f *FormState) setID(value string) {
	f.mu.Lock()
	ticket := f.unique.Ticket()
	f.ticket = ticket
	f.Values.Update(func(v Values) Values {
		v.ID = value
		return v
	})
	f.IDCheck.Set(IDCheck{Value: value, Pending: true})
	f.mu.Unlock()

	go func() {
		f.applyIDCheck(ticket, value, f.unique.CheckTicket(f.ctx, ticket, value))
	}()
}

// applyIDCheck stores res unless a newer check was started meanwhile.
func (f *FormState) applyIDCheck(ticket uint64, value string, res validation.Result) bool {
	if res.Stale {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if ticket != f.ticket {
		return false
	}
	f.IDCheck.Set(IDCheck{Value: value, Failure: res.Failure})
	return true
}

// Errors returns the rule failures of field for its current value.
func (f *FormState) Errors(field Field) []validation.Failure {
	v := f.Values.Get()
	switch field {
	case FieldID:
		fails := validation.Apply(v.ID, validation.IDRules()...)
		if f.mode == ModeCreate {
			if c := f.IDCheck.Get(); c.Value == v.ID && c.Failure != nil {
				fails = append(fails, *c.Failure)
			}
		}
		return fails
	case FieldName:
		return validation.Apply(v.Name, validation.NameRules()...)
	case FieldDescription:
		return validation.Apply(v.Description, validation.DescriptionRules()...)
	case FieldLogo:
		return validation.Apply(v.Logo, validation.LogoRules()...)
	case FieldDateRelease:
		return validation.Apply(v.DateRelease, validation.ReleaseRules(f.now)...)
	case FieldDateRevision:
		return validation.Apply(v.DateRevision, validation.Required())
	}
	return nil
}

// AllErrors maps every failing field to its failures.
func (f *FormState) AllErrors() map[Field][]validation.Failure {
	out := map[Field][]validation.Failure{}
	for _, field := range Fields {
		if fails := f.Errors(field); len(fails) > 0 {
			out[field] = fails
		}
	}
	return out
}

// Pending reports whether the uniqueness check of the current id has not
// settled yet.
func (f *FormState) Pending() bool {
	if f.mode != ModeCreate {
		return false
	}
	c := f.IDCheck.Get()
	return c.Pending && c.Value == f.Values.Get().ID
}

func (f *FormState) Valid() bool {
	return len(f.AllErrors()) == 0 && !f.Pending()
}

// Submit creates or updates the product. An invalid form is rejected with
// ErrInvalidForm before any network call; an unsettled uniqueness check is
// settled first. On success it shows a toast and navigates to the list.
func (f *FormState) Submit(ctx context.Context) error {
	if !f.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInProgress
	}
	defer f.submitting.Store(false)

	if f.Pending() {
		f.settleID(ctx)
	}
	if !f.Valid() {
		return ErrInvalidForm
	}

	v := f.Values.Get()
	release, err := models.ParseDate(v.DateRelease)
	if err != nil {
		return ErrInvalidForm
	}
	p := models.Product{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Logo:        v.Logo,
		DateRelease: release,
	}.WithRevision()

	f.IsLoading.Set(true)
	f.ErrorMessage.Set("")
	defer f.IsLoading.Set(false)

	msg := msgCreated
	if f.mode == ModeEdit {
		_, err = f.repo.Update(ctx, f.productID, p)
		msg = msgUpdated
	} else {
		_, err = f.repo.Create(ctx, p)
	}
	if err != nil {
		f.log.Error(ctx, "failed to save product", "id", p.ID, "error", err)
		f.ErrorMessage.Set(client.Message(err))
		return err
	}

	f.log.Info(ctx, "product saved", "id", p.ID)
	f.toasts.Success(msg)
	f.nav.Navigate(PathList)
	return nil
}

func (f *FormState) settleID(ctx context.Context) {
	f.mu.Lock()
	ticket := f.unique.Ticket()
	f.ticket = ticket
	value := f.Values.Get().ID
	f.mu.Unlock()

	f.applyIDCheck(ticket, value, f.unique.Settle(ctx, ticket, value))
}

// Reset empties the form in create mode. In edit mode it restores the last
// loaded product without fetching it again.
func (f *FormState) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ticket = f.unique.Ticket()
	f.IDCheck.Set(IDCheck{})

	switch {
	case f.mode == ModeEdit && f.snapshot != nil:
		f.Values.Set(valuesOf(*f.snapshot))
	case f.mode == ModeEdit:
		f.Values.Set(Values{ID: f.productID})
	default:
		f.Values.Set(Values{})
	}
}

func (f *FormState) Cancel() {
	f.nav.Navigate(PathList)
}

// Close stops background uniqueness checks.
func (f *FormState) Close() {
	f.cancel()
}
