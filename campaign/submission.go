package campaign

import (
	"context"
	"errors"
	"strings"

	"charm-donate-tui/wallet"

	"github.com/charmbracelet/log"
	"github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
)

// ErrInvalidImage means the image URL did not load as an image.
var ErrInvalidImage = errors.New("image url is not a loadable image")

// CreateForm carries the user-entered fields of a new campaign.
type CreateForm struct {
	Title       string
	Description string
	Image       string
}

// Trimmed returns a copy with surrounding whitespace removed from every
// field; validation and submission both work on the trimmed values.
func (f CreateForm) Trimmed() CreateForm {
	return CreateForm{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Image:       strings.TrimSpace(f.Image),
	}
}

// Validate checks the client-side rules that block submission before any
// network call.
func (f CreateForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required),
		validation.Field(&f.Description, validation.Required),
		validation.Field(&f.Image, validation.Required, is.URL),
	)
}

// Submission owns the validated write path. Both operations follow the same
// four phases: validate, estimate and submit, await confirmation, refresh.
// There are no automatic retries; every failure is terminal for the attempt.
type Submission struct {
	wallet    Wallet
	submitter Submitter
	repo      *Repository
	prober    ImageProber
	logger    *log.Logger
}

// NewSubmission wires the write path together.
func NewSubmission(w Wallet, submitter Submitter, repo *Repository, prober ImageProber, logger *log.Logger) *Submission {
	if logger == nil {
		logger = log.Default()
	}
	return &Submission{
		wallet:    w,
		submitter: submitter,
		repo:      repo,
		prober:    prober,
		logger:    logger,
	}
}

// CreateCampaign validates the form, probes the image URL, and submits the
// new-campaign transaction for the connected account, blocking until the
// transaction confirms.
func (s *Submission) CreateCampaign(ctx context.Context, form CreateForm) error {
	form = form.Trimmed()
	if err := form.Validate(); err != nil {
		return err
	}
	if !s.prober.Probe(ctx, form.Image) {
		return ErrInvalidImage
	}

	owner, ok := s.wallet.CurrentAddress()
	if !ok {
		return wallet.ErrNotConnected
	}
	opts, err := s.wallet.BindingForWrites(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("creating campaign", "owner", owner.Hex(), "title", form.Title)
	tx, err := s.submitter.SubmitCampaign(ctx, opts, owner, form.Title, form.Description, form.Image)
	if err != nil {
		s.logger.Error("campaign submission failed", "err", err)
		return err
	}

	s.logger.Info("transaction sent", "tx", tx.Hash().Hex())
	if _, err := s.submitter.AwaitConfirmation(ctx, tx); err != nil {
		s.logger.Error("campaign confirmation failed", "tx", tx.Hash().Hex(), "err", err)
		return err
	}

	s.logger.Info("campaign created", "tx", tx.Hash().Hex())
	return nil
}

// Donate parses the entered amount, submits the payable donation and, after
// confirmation, re-fetches just the affected campaign and its donor ledger.
func (s *Submission) Donate(ctx context.Context, id uint64, amountText string) (Campaign, []Donation, error) {
	amount, err := ParseAmount(amountText)
	if err != nil {
		return Campaign{}, nil, err
	}

	if _, ok := s.wallet.CurrentAddress(); !ok {
		return Campaign{}, nil, wallet.ErrNotConnected
	}
	opts, err := s.wallet.BindingForWrites(ctx)
	if err != nil {
		return Campaign{}, nil, err
	}

	s.logger.Info("donating", "campaign", id, "amount", amountText)
	tx, err := s.submitter.SubmitDonation(ctx, opts, id, amount)
	if err != nil {
		s.logger.Error("donation submission failed", "campaign", id, "err", err)
		return Campaign{}, nil, err
	}

	s.logger.Info("transaction sent", "tx", tx.Hash().Hex())
	if _, err := s.submitter.AwaitConfirmation(ctx, tx); err != nil {
		s.logger.Error("donation confirmation failed", "tx", tx.Hash().Hex(), "err", err)
		return Campaign{}, nil, err
	}

	refreshed, err := s.repo.Detail(ctx, id)
	if err != nil {
		return Campaign{}, nil, err
	}
	ledger, err := s.repo.DonorLedger(ctx, id)
	if err != nil {
		return Campaign{}, nil, err
	}

	s.logger.Info("donation confirmed", "campaign", id, "collected", refreshed.AmountCollected.String())
	return refreshed, ledger, nil
}
