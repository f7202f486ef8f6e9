package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/passdy/intake/internal/address"
	"github.com/passdy/intake/internal/form"
	"github.com/passdy/intake/internal/order"
)

// ErrUnknownOption is returned when an answer names an area the address
// service did not offer.
var ErrUnknownOption = errors.New("option not offered")

// Result is the outcome of a scripted intake.
type Result struct {
	State    order.State
	Receipt  *order.Receipt
	Metrics  form.Metrics
	Errors   form.Errors
	Messages []string
}

// Runner drives a form controller through the events a user would produce.
type Runner struct {
	form   *form.Controller
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner for the given controller.
func NewRunner(controller *form.Controller, opts ...RunnerOption) (*Runner, error) {
	if controller == nil {
		return nil, errors.New("form controller is required")
	}
	r := &Runner{
		form:   controller,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run fills the form from answers and submits it. A validation failure is
// returned together with a Result describing the rejected fields.
func (r *Runner) Run(ctx context.Context, answers Answers) (Result, error) {
	r.form.Start(ctx)
	r.form.Wait()

	if err := r.fill(ctx, answers); err != nil {
		return Result{}, err
	}

	err := r.form.Submit(ctx)
	view := r.form.View()
	result := Result{
		State:   view.State,
		Receipt: view.Receipt,
		Metrics: view.Metrics,
		Errors:  view.Errors,
	}

	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		result.Messages = messages(verr.Errors)
		r.logger.Info("intake rejected", "fields", len(verr.Errors))
		return result, err
	case err != nil:
		result.Messages = []string{form.MessageSubmitFailed}
		return result, err
	}

	result.Messages = []string{form.MessageSubmitted}
	return result, nil
}

func (r *Runner) fill(ctx context.Context, a Answers) error {
	set := func(field form.Field, value string) error {
		if value == "" {
			return nil
		}
		if err := r.form.SetField(ctx, field, value); err != nil {
			return fmt.Errorf("set %s: %w", field, err)
		}
		return nil
	}

	if err := set(form.FieldTypeGive, a.TypeGive); err != nil {
		return err
	}
	if err := set(form.FieldTypeReceive, a.TypeReceive); err != nil {
		return err
	}
	if a.ClothNum != nil {
		if err := set(form.FieldClothNum, strconv.Itoa(*a.ClothNum)); err != nil {
			return err
		}
	}
	if err := set(form.FieldAddressName, a.Name); err != nil {
		return err
	}
	if a.Email != "" && !r.form.View().EmailLocked {
		if err := set(form.FieldEmail, a.Email); err != nil {
			return err
		}
	}
	if err := set(form.FieldPhone, a.Phone); err != nil {
		return err
	}

	for _, tier := range address.Tiers {
		id := a.selection(tier)
		if !id.IsSet() {
			continue
		}
		if err := r.selectArea(ctx, tier, id); err != nil {
			return err
		}
	}

	if err := set(form.FieldAddress, a.Address); err != nil {
		return err
	}
	if a.HomeAddress != nil {
		r.form.SetHomeAddress(*a.HomeAddress)
	}
	return nil
}

func (r *Runner) selectArea(ctx context.Context, tier address.Tier, id address.ID) error {
	r.form.Wait()
	snap := r.form.Options(tier)
	if snap.Err != nil {
		return fmt.Errorf("select %s: %w", tier, snap.Err)
	}

	opt, ok := address.FindOption(snap.Options, id)
	if !ok {
		return fmt.Errorf("select %s %d: %w", tier, id, ErrUnknownOption)
	}
	if err := r.form.SelectAddress(ctx, tier, opt.Value); err != nil {
		return fmt.Errorf("select %s: %w", tier, err)
	}

	r.logger.Debug("area selected", "tier", tier, "id", opt.Value, "label", opt.Label)
	r.form.Wait()
	return nil
}

func messages(errs form.Errors) []string {
	var out []string
	for _, f := range form.Fields {
		for _, kind := range errs[f] {
			if msg := form.Message(f, kind); msg != "" {
				out = append(out, msg)
			}
		}
	}
	return out
}
