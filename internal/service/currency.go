package service

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/model"
	"artmarket-storefront/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const BaseCurrency = "NGN"

// FallbackRates is used until (and whenever) the rate API cannot be reached.
func FallbackRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"NGN": decimal.NewFromInt(1),
		"USD": decimal.RequireFromString("0.00066"),
		"GBP": decimal.RequireFromString("0.00052"),
		"EUR": decimal.RequireFromString("0.00061"),
	}
}

var currencySymbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
}

type CurrencyService interface {
	// Refresh replaces the rate table from the rate API. Only codes already in
	// the table are taken; on failure the current table stays.
	Refresh(ctx context.Context) error
	// Run refreshes on every tick until ctx is done.
	Run(ctx context.Context, interval time.Duration)
	Rates() map[string]decimal.Decimal
	Convert(amount decimal.Decimal, code string) (decimal.Decimal, error)
	Format(amount decimal.Decimal, code string) (string, error)
	Select(ctx context.Context, sessionID, code string) error
	Describe(session *model.Session) *dto.CurrencyResponse
}

type currencyServiceImpl struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal

	ratesClient     client.RatesClient
	sessionRepo     repository.SessionRepository
	defaultCurrency string
	group           singleflight.Group
}

func NewCurrencyService(
	ratesClient client.RatesClient,
	sessionRepo repository.SessionRepository,
	defaultCurrency string,
	initial map[string]decimal.Decimal,
) CurrencyService {
	return &currencyServiceImpl{
		rates:           maps.Clone(initial),
		ratesClient:     ratesClient,
		sessionRepo:     sessionRepo,
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

func (s *currencyServiceImpl) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		fetched, err := s.ratesClient.FetchRates(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		next := maps.Clone(s.rates)
		for code := range next {
			rate, ok := fetched[code]
			if !ok || !rate.IsPositive() {
				continue
			}
			next[code] = rate
		}
		s.rates = next
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("refresh currency rates: %w", err)
	}
	return nil
}

func (s *currencyServiceImpl) Run(ctx context.Context, interval time.Duration) {
	if err := s.Refresh(ctx); err != nil {
		log.Warnf("keeping fallback currency rates: %v", err)
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				log.Warnf("currency rate refresh: %v", err)
			}
		}
	}
}

func (s *currencyServiceImpl) Rates() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.rates)
}

func (s *currencyServiceImpl) rate(code string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rate, ok := s.rates[strings.ToUpper(code)]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return rate, nil
}

func (s *currencyServiceImpl) Convert(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	rate, err := s.rate(code)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(rate).Round(2), nil
}

func (s *currencyServiceImpl) Format(amount decimal.Decimal, code string) (string, error) {
	converted, err := s.Convert(amount, code)
	if err != nil {
		return "", err
	}
	code = strings.ToUpper(code)
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}
	return symbol + converted.StringFixed(2), nil
}

func (s *currencyServiceImpl) Select(ctx context.Context, sessionID, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, err := s.rate(code); err != nil {
		return err
	}
	return s.sessionRepo.SetCurrency(ctx, sessionID, code)
}

// Describe reports the session's selected currency, falling back to the
// default when the stored code is unknown.
func (s *currencyServiceImpl) Describe(session *model.Session) *dto.CurrencyResponse {
	rates := s.Rates()

	selected := s.defaultCurrency
	if session != nil {
		if _, ok := rates[session.Currency]; ok {
			selected = session.Currency
		}
	}

	symbols := make(map[string]string, len(rates))
	for code := range rates {
		if symbol, ok := currencySymbols[code]; ok {
			symbols[code] = symbol
		} else {
			symbols[code] = code
		}
	}

	return &dto.CurrencyResponse{
		Selected: selected,
		Base:     BaseCurrency,
		Rates:    rates,
		Symbols:  symbols,
	}
}
