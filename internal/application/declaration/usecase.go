// Package declaration agrega las facturas y compras del negocio en las declaraciones
// fiscales G50 (mensual, régimen real), G12 y G12bis (anuales, regímenes forfaitaires).
package declaration

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

// UseCase liquida las declaraciones a partir de los agregados del repositorio.
type UseCase struct {
	businessRepo repository.BusinessRepository
	declRepo     repository.DeclarationRepository
	resolver     *tax.RateResolver
	exporter     *Exporter
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	businessRepo repository.BusinessRepository,
	declRepo repository.DeclarationRepository,
	resolver *tax.RateResolver,
) *UseCase {
	return &UseCase{
		businessRepo: businessRepo,
		declRepo:     declRepo,
		resolver:     resolver,
		exporter:     NewExporter(),
	}
}

// G50 liquida la declaración mensual del período pedido.
// Devuelve domain.ErrNotApplicable si el régimen del negocio no declara G50.
func (uc *UseCase) G50(ctx context.Context, businessID string, req dto.G50Request) (*dto.G50Response, error) {
	_, cfg, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !cfg.Modules.G50 {
		return nil, fmt.Errorf("%w: la G50 no aplica al régimen %s", domain.ErrNotApplicable, cfg.Regime)
	}
	period := tax.Period{Year: req.Year, Month: time.Month(req.Month)}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if req.PreviousYearIBS.IsNegative() {
		return nil, fmt.Errorf("%w: previous_year_ibs negativo", domain.ErrInvalidInput)
	}
	from, to := period.Bounds()

	resolved, err := uc.resolver.Resolve(ctx, businessID, from)
	if err != nil {
		return nil, err
	}
	sales, err := uc.declRepo.SalesByRate(ctx, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("g50: ventas por tasa: %w", err)
	}
	stamp, err := uc.declRepo.StampDutyCollected(ctx, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("g50: timbre: %w", err)
	}
	deductible, withholdings, err := uc.declRepo.PurchaseTotals(ctx, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("g50: compras: %w", err)
	}

	g50, err := tax.ComputeG50(tax.G50Input{
		Period:             period,
		Sales:              sales,
		DeductibleTVA:      deductible,
		StampDuty:          stamp,
		Withholdings:       withholdings,
		PreviousYearIBS:    req.PreviousYearIBS,
		IBSInstallmentRate: resolved.IBSInstallmentRate,
		Modules:            cfg.Modules,
	})
	if err != nil {
		return nil, err
	}
	return &dto.G50Response{BusinessID: businessID, Year: req.Year, Month: req.Month, G50: g50}, nil
}

// G12 liquida la declaración previsional. Sin volumen previsto en la petición se toma
// el volumen real del ejercicio anterior.
func (uc *UseCase) G12(ctx context.Context, businessID string, req dto.G12Request) (*dto.G12Response, error) {
	_, cfg, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !cfg.Modules.G12 {
		return nil, fmt.Errorf("%w: la G12 no aplica al régimen %s", domain.ErrNotApplicable, cfg.Regime)
	}
	if err := tax.ValidateYear(req.Year); err != nil {
		return nil, err
	}
	rates, err := uc.ratesFor(ctx, businessID, cfg.Regime, req.Year)
	if err != nil {
		return nil, err
	}

	forecast := req.ForecastGoods != nil || req.ForecastServices != nil
	var goods, services decimal.Decimal
	if forecast {
		if req.ForecastGoods != nil {
			goods = *req.ForecastGoods
		}
		if req.ForecastServices != nil {
			services = *req.ForecastServices
		}
	} else {
		from, to := yearBounds(req.Year - 1)
		goods, services, err = uc.declRepo.TurnoverByKind(ctx, businessID, from, to)
		if err != nil {
			return nil, fmt.Errorf("g12: volumen del ejercicio anterior: %w", err)
		}
	}

	g12, err := tax.ComputeG12(cfg.Modules, rates, req.Year, goods, services)
	if err != nil {
		return nil, err
	}
	return &dto.G12Response{BusinessID: businessID, Regime: cfg.Regime.String(), Forecast: forecast, G12: g12}, nil
}

// G12bis liquida la declaración definitiva sobre el volumen real del ejercicio.
func (uc *UseCase) G12bis(ctx context.Context, businessID string, req dto.G12bisRequest) (*dto.G12bisResponse, error) {
	_, cfg, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !cfg.Modules.G12bis {
		return nil, fmt.Errorf("%w: la G12bis no aplica al régimen %s", domain.ErrNotApplicable, cfg.Regime)
	}
	if err := tax.ValidateYear(req.Year); err != nil {
		return nil, err
	}
	rates, err := uc.ratesFor(ctx, businessID, cfg.Regime, req.Year)
	if err != nil {
		return nil, err
	}
	from, to := yearBounds(req.Year)
	goods, services, err := uc.declRepo.TurnoverByKind(ctx, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("g12bis: volumen del ejercicio: %w", err)
	}
	g12bis, err := tax.ComputeG12bis(cfg.Modules, rates, req.Year, goods, services, req.PaidWithG12)
	if err != nil {
		return nil, err
	}
	return &dto.G12bisResponse{BusinessID: businessID, Regime: cfg.Regime.String(), G12bis: g12bis}, nil
}

// ExportG50 liquida la G50 y la serializa en XML canónico con su huella.
func (uc *UseCase) ExportG50(ctx context.Context, businessID string, req dto.G50Request) (*Export, error) {
	resp, err := uc.G50(ctx, businessID, req)
	if err != nil {
		return nil, err
	}
	b, cfg, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return uc.exporter.G50(b, cfg.Regime, resp)
}

// ExportG12 igual que ExportG50 para la G12.
func (uc *UseCase) ExportG12(ctx context.Context, businessID string, req dto.G12Request) (*Export, error) {
	resp, err := uc.G12(ctx, businessID, req)
	if err != nil {
		return nil, err
	}
	b, cfg, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return uc.exporter.G12(b, cfg.Regime, resp)
}

// ExportG12bis igual que ExportG50 para la G12bis.
func (uc *UseCase) ExportG12bis(ctx context.Context, businessID string, req dto.G12bisRequest) (*Export, error) {
	resp, err := uc.G12bis(ctx, businessID, req)
	if err != nil {
		return nil, err
	}
	b, cfg, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return uc.exporter.G12bis(b, cfg.Regime, resp)
}

func (uc *UseCase) load(ctx context.Context, businessID string) (*entity.Business, tax.TaxConfiguration, error) {
	b, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, tax.TaxConfiguration{}, err
	}
	if b == nil {
		return nil, tax.TaxConfiguration{}, domain.ErrNotFound
	}
	cfg, err := tax.ConfigureTaxModules(b)
	if err != nil {
		return nil, tax.TaxConfiguration{}, err
	}
	return b, cfg, nil
}

// ratesFor tasas vigentes al inicio del ejercicio.
func (uc *UseCase) ratesFor(ctx context.Context, businessID string, regime tax.Regime, year int) (tax.ApplicableRates, error) {
	from, _ := yearBounds(year)
	resolved, err := uc.resolver.Resolve(ctx, businessID, from)
	if err != nil {
		return tax.ApplicableRates{}, err
	}
	return resolved.Rates.For(regime), nil
}

func yearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
