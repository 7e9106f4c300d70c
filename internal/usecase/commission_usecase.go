package usecase

import (
	"sort"

	"github.com/LavaJover/shvark-ledger-service/internal/config"
	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/shopspring/decimal"
)

type CommissionCalculator interface {
	SponsorChain(memberID string) ([]*domain.Member, error)
	Calculate(amount decimal.Decimal, chain []*domain.Member, includeCommissions bool) ([]domain.CommissionShare, error)
}

type DefaultCommissionCalculator struct {
	LedgerRepo domain.LedgerRepository
	Rules      []domain.CommissionRule
}

func NewDefaultCommissionCalculator(ledgerRepo domain.LedgerRepository, rates []config.CommissionRate) *DefaultCommissionCalculator {
	rules := make([]domain.CommissionRule, 0, len(rates))
	for _, rate := range rates {
		rules = append(rules, domain.CommissionRule{
			Level: rate.Level,
			Rate:  decimal.NewFromFloat(rate.Rate),
		})
	}
	// Уровни в конфиге могут идти в любом порядке
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Level < rules[j].Level
	})

	return &DefaultCommissionCalculator{
		LedgerRepo: ledgerRepo,
		Rules:      rules,
	}
}

// SponsorChain собирает цепочку спонсоров ближайший-первым, не глубже
// настроенных уровней. Цепочка короче настройки - не ошибка.
// Цикл в данных - фатальный дефект, наружу уходит ErrCyclicSponsorChain
func (c *DefaultCommissionCalculator) SponsorChain(memberID string) ([]*domain.Member, error) {
	maxLevels := len(c.Rules)
	chain := make([]*domain.Member, 0, maxLevels)
	visited := map[string]bool{memberID: true}

	currentID := memberID
	for len(chain) < maxLevels {
		member, err := c.LedgerRepo.GetMemberByID(currentID)
		if err != nil {
			return nil, err
		}
		if member.SponsorID == "" {
			break
		}
		if visited[member.SponsorID] {
			return nil, domain.ErrCyclicSponsorChain
		}
		sponsor, err := c.LedgerRepo.GetMemberByID(member.SponsorID)
		if err != nil {
			return nil, err
		}
		visited[sponsor.ID] = true
		chain = append(chain, sponsor)
		currentID = sponsor.ID
	}

	return chain, nil
}

func (c *DefaultCommissionCalculator) Calculate(amount decimal.Decimal, chain []*domain.Member, includeCommissions bool) ([]domain.CommissionShare, error) {
	if !includeCommissions {
		return []domain.CommissionShare{}, nil
	}

	shares := make([]domain.CommissionShare, 0, len(c.Rules))
	for _, rule := range c.Rules {
		// Уровень глубже фактической цепочки - просто пропускаем
		if rule.Level > len(chain) {
			continue
		}
		sponsor := chain[rule.Level-1]
		shares = append(shares, domain.CommissionShare{
			Level:     rule.Level,
			SponsorID: sponsor.ID,
			Rate:      rule.Rate,
			Amount:    domain.RoundMoney(amount.Mul(rule.Rate)),
		})
	}

	return shares, nil
}
