package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/passdy/intake/internal/address"
	"github.com/passdy/intake/internal/order"
)

// User is the signed-in customer the form is pre-filled from.
type User struct {
	FullName string
	Email    string
}

// Listener receives state changes for presentation.
// Callbacks run on the goroutine that caused the change and must not
// issue controller events themselves.
type Listener interface {
	OptionsChanged(snap address.Snapshot)
	FormChanged(view View)
}

// View is a consistent copy of the form state.
type View struct {
	Values      Values
	Errors      Errors
	Metrics     Metrics
	State       order.State
	HomeAddress bool
	EmailLocked bool
	LastError   error // *order.SubmissionError after a failed submit
	Receipt     *order.Receipt
}

// Controller owns the intake form: field values, validation, the address
// cascade, derived metrics and the submission state machine.
type Controller struct {
	submitter order.Submitter
	logger    *slog.Logger
	listener  Listener
	target    MetricsTarget
	user      *User
	resolvers map[address.Tier]*address.Resolver

	// events serializes user events; mu guards the state below.
	events sync.Mutex

	mu          sync.Mutex
	values      Values
	errors      Errors
	metrics     Metrics
	state       order.State
	home        bool
	emailLocked bool
	submitted   bool
	lastErr     error
	receipt     *order.Receipt
}

// Option configures a Controller.
type Option func(*Controller)

// WithUser pre-fills the form from a signed-in user.
func WithUser(user *User) Option {
	return func(c *Controller) {
		c.user = user
	}
}

// WithListener registers the presentation listener.
func WithListener(l Listener) Option {
	return func(c *Controller) {
		c.listener = l
	}
}

// WithMetricsTarget registers the savings display.
func WithMetricsTarget(t MetricsTarget) Option {
	return func(c *Controller) {
		c.target = t
	}
}

// WithLogger sets a custom logger for the controller and its resolvers.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a controller backed by the given services.
func New(lookup address.Lookuper, submitter order.Submitter, opts ...Option) (*Controller, error) {
	if lookup == nil {
		return nil, errors.New("address lookuper is required")
	}
	if submitter == nil {
		return nil, errors.New("order submitter is required")
	}

	c := &Controller{
		submitter: submitter,
		logger:    slog.Default(),
		resolvers: make(map[address.Tier]*address.Resolver, len(address.Tiers)),
		values:    Values{},
		errors:    Errors{},
		metrics:   ComputeMetrics(0),
		state:     order.StateIdle,
		home:      true,
	}

	for _, opt := range opts {
		opt(c)
	}

	for _, tier := range address.Tiers {
		r, err := address.NewResolver(tier, lookup,
			address.WithLogger(c.logger),
			address.WithPublisher(c.optionsChanged),
		)
		if err != nil {
			return nil, fmt.Errorf("create %s resolver: %w", tier, err)
		}
		c.resolvers[tier] = r
	}

	// The user context is read once; later changes to it are not followed.
	if c.user != nil {
		c.values[FieldAddressName] = c.user.FullName
		c.values[FieldEmail] = c.user.Email
		c.emailLocked = c.user.Email != ""
	}

	return c, nil
}

// Start mounts the address resolvers and pushes the initial savings.
func (c *Controller) Start(ctx context.Context) {
	c.events.Lock()
	defer c.events.Unlock()

	c.mu.Lock()
	metrics := c.metrics
	c.mu.Unlock()

	if c.target != nil {
		c.target.SetTarget(metrics)
	}
	for _, tier := range address.Tiers {
		c.resolvers[tier].Mount(ctx)
	}
}

// SetField applies a user edit. Changing an address tier clears every tier
// below it and re-keys their resolvers.
func (c *Controller) SetField(ctx context.Context, field Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	c.events.Lock()
	defer c.events.Unlock()

	c.mu.Lock()
	value, err := c.acceptLocked(field, value)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	// Selecting an address tier always clears the tiers below it, even when
	// the selection repeats the current value.
	tier, isTier := TierForField(field)
	if c.values[field] == value && (!isTier || len(tier.Below()) == 0) {
		c.mu.Unlock()
		return nil
	}

	c.values[field] = value
	changed := []Field{field}

	type parentUpdate struct {
		tier   address.Tier
		parent address.ID
	}
	var updates []parentUpdate
	if isTier {
		parent := c.values.ID(field)
		for _, below := range tier.Below() {
			f, _ := FieldForTier(below)
			delete(c.values, f)
			changed = append(changed, f)
			updates = append(updates, parentUpdate{tier: below, parent: parent})
			parent = 0
		}
	}

	metricsChanged := field == FieldClothNum
	if metricsChanged {
		c.metrics = metricsFor(value)
	}
	if c.submitted {
		c.revalidateLocked(changed...)
	}
	metrics := c.metrics
	view := c.viewLocked()
	c.mu.Unlock()

	for _, u := range updates {
		c.resolvers[u.tier].SetParent(ctx, u.parent)
	}
	if metricsChanged && c.target != nil {
		c.target.SetTarget(metrics)
	}
	c.notify(view)
	return nil
}

// SelectAddress selects id in tier; an unset id clears the selection.
func (c *Controller) SelectAddress(ctx context.Context, tier address.Tier, id address.ID) error {
	f, ok := FieldForTier(tier)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, tier)
	}
	return c.SetField(ctx, f, id.String())
}

// SelectTypeGive sets the purpose toggle.
func (c *Controller) SelectTypeGive(ctx context.Context, g order.Give) error {
	return c.SetField(ctx, FieldTypeGive, string(g))
}

// SelectTypeReceive sets the rejected-items toggle.
func (c *Controller) SelectTypeReceive(ctx context.Context, r order.Receive) error {
	return c.SetField(ctx, FieldTypeReceive, string(r))
}

// SetHomeAddress switches between home (apartment) and work (company) address.
func (c *Controller) SetHomeAddress(home bool) {
	c.events.Lock()
	defer c.events.Unlock()

	c.mu.Lock()
	if c.home == home {
		c.mu.Unlock()
		return
	}
	c.home = home
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
}

// Submit validates the form and, when valid, sends the order. It blocks
// until the order service answers. Calling Submit while a submission is in
// flight returns ErrSubmitInProgress without contacting the service.
func (c *Controller) Submit(ctx context.Context) error {
	c.events.Lock()
	c.mu.Lock()

	if c.state == order.StateSubmitting {
		c.mu.Unlock()
		c.events.Unlock()
		return ErrSubmitInProgress
	}

	c.submitted = true
	c.errors = Validate(c.values)
	if len(c.errors) > 0 {
		verr := &ValidationError{Errors: c.errors.Clone()}
		view := c.viewLocked()
		c.mu.Unlock()
		c.events.Unlock()

		c.notify(view)
		return verr
	}

	payload, err := buildPayload(c.values, c.home)
	if err != nil {
		c.mu.Unlock()
		c.events.Unlock()
		return fmt.Errorf("build payload: %w", err)
	}

	c.state = order.StateSubmitting
	c.lastErr = nil
	c.receipt = nil
	view := c.viewLocked()
	c.mu.Unlock()
	c.events.Unlock()

	c.notify(view)

	c.logger.Info("submitting order",
		"cloth_num", payload.ClothNum,
		"type_give", payload.TypeGive,
		"city_id", payload.CityID,
		"address_type", payload.AddressType,
	)

	receipt, err := c.submitter.Submit(ctx, payload)
	if err == nil && !receipt.HasData() {
		err = order.ErrNoData
	}

	c.mu.Lock()
	if err != nil {
		c.state = order.StateFailed
		c.lastErr = &order.SubmissionError{Err: err}
	} else {
		c.state = order.StateSucceeded
		c.receipt = receipt
	}
	result := c.lastErr
	view = c.viewLocked()
	c.mu.Unlock()

	c.notify(view)

	if result != nil {
		c.logger.Warn("order submission failed", "error", err)
		return result
	}
	c.logger.Info("order submitted")
	return nil
}

// Validate reports the current rule violations without changing state.
func (c *Controller) Validate() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Validate(c.values)
}

// View returns a copy of the form state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Options returns the current option list of tier.
func (c *Controller) Options(tier address.Tier) address.Snapshot {
	r, ok := c.resolvers[tier]
	if !ok {
		return address.Snapshot{Tier: tier}
	}
	return r.Snapshot()
}

// Refresh re-issues the lookup of tier.
func (c *Controller) Refresh(ctx context.Context, tier address.Tier) {
	if r, ok := c.resolvers[tier]; ok {
		r.Refresh(ctx)
	}
}

// Wait blocks until every address lookup issued so far has settled.
func (c *Controller) Wait() {
	for _, tier := range address.Tiers {
		c.resolvers[tier].Wait()
	}
}

// acceptLocked checks an edit and returns the value to store.
func (c *Controller) acceptLocked(field Field, value string) (string, error) {
	switch field {
	case FieldEmail:
		if c.emailLocked {
			return "", fmt.Errorf("%w: %s", ErrReadOnly, field)
		}
	case FieldTypeGive:
		if value != "" && !order.Give(value).Valid() {
			return "", fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
	case FieldTypeReceive:
		if value != "" && !order.Receive(value).Valid() {
			return "", fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
	case FieldClothNum:
		value = strings.TrimSpace(value)
		if strings.IndexFunc(value, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return "", fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
		if value != "" {
			if _, err := strconv.Atoi(value); err != nil {
				return "", fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
			}
		}
	case FieldCityID, FieldDistrictID, FieldWardID:
		id, err := address.ParseID(value)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		value = id.String()
	}
	return value, nil
}

func (c *Controller) revalidateLocked(fields ...Field) {
	for _, f := range fields {
		if kinds := validateField(f, c.values[f]); len(kinds) > 0 {
			c.errors[f] = kinds
		} else {
			delete(c.errors, f)
		}
	}
}

func (c *Controller) viewLocked() View {
	return View{
		Values:      c.values.Clone(),
		Errors:      c.errors.Clone(),
		Metrics:     c.metrics,
		State:       c.state,
		HomeAddress: c.home,
		EmailLocked: c.emailLocked,
		LastError:   c.lastErr,
		Receipt:     c.receipt,
	}
}

func (c *Controller) optionsChanged(snap address.Snapshot) {
	if c.listener != nil {
		c.listener.OptionsChanged(snap)
	}
}

func (c *Controller) notify(view View) {
	if c.listener != nil {
		c.listener.FormChanged(view)
	}
}
