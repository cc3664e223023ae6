package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
	"github.com/ugcompta/invoiceflow/pkg/jwt"
)

// TokenConfig configuración del token que se entrega al propietario tras el onboarding.
type TokenConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// BusinessUseCase onboarding, ajustes y configuración fiscal del negocio.
type BusinessUseCase struct {
	txRunner     OnboardingTxRunner
	businessRepo repository.BusinessRepository
	resolver     *tax.RateResolver
	tokenCfg     TokenConfig
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(
	txRunner OnboardingTxRunner,
	businessRepo repository.BusinessRepository,
	resolver *tax.RateResolver,
	tokenCfg TokenConfig,
) *BusinessUseCase {
	return &BusinessUseCase{txRunner: txRunner, businessRepo: businessRepo, resolver: resolver, tokenCfg: tokenCfg}
}

// Onboard crea el negocio, su propietario (rol admin) y activa los módulos por defecto.
// Rechaza identificadores mal formados y combinaciones de forma/régimen no soportadas.
func (uc *BusinessUseCase) Onboard(ctx context.Context, in dto.CreateBusinessRequest) (*dto.OnboardingResponse, error) {
	now := time.Now()
	b := &entity.Business{
		ID:                   uuid.New().String(),
		Name:                 strings.TrimSpace(in.Name),
		LegalType:            strings.TrimSpace(in.LegalType),
		FiscalRegime:         strings.TrimSpace(in.FiscalRegime),
		LegalForm:            strings.TrimSpace(in.LegalForm),
		Capital:              in.Capital,
		RC:                   strings.TrimSpace(in.RC),
		NIF:                  strings.TrimSpace(in.NIF),
		AI:                   strings.TrimSpace(in.AI),
		NIS:                  strings.TrimSpace(in.NIS),
		AutoEntrepreneurCard: strings.TrimSpace(in.AutoEntrepreneurCard),
		ActivityKind:         in.ActivityKind,
		Address:              in.Address,
		Phone:                in.Phone,
		Email:                in.Email,
		Status:               "active",
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if b.ActivityKind == "" {
		b.ActivityKind = entity.ActivityMixed
	}
	regime, err := validateBusiness(b)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	ownerName := in.OwnerName
	if ownerName == "" {
		ownerName = in.OwnerEmail
	}
	owner := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   b.ID,
		Email:        strings.ToLower(strings.TrimSpace(in.OwnerEmail)),
		PasswordHash: string(hash),
		Name:         ownerName,
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunOnboarding(ctx, func(
		businessRepo repository.BusinessRepository,
		userRepo repository.UserRepository,
		moduleRepo repository.ModuleRepository,
	) error {
		existing, err := userRepo.GetByEmail(ctx, owner.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := businessRepo.Create(ctx, b); err != nil {
			return err
		}
		if err := userRepo.Create(ctx, owner); err != nil {
			return err
		}
		if err := businessRepo.SetOwner(ctx, b.ID, owner.ID); err != nil {
			return err
		}
		b.OwnerUserID = owner.ID
		return activateDefaults(ctx, moduleRepo, b.ID, now)
	})
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.tokenCfg.Secret, owner.ID, b.ID, owner.Role, uc.tokenCfg.Issuer, uc.tokenCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.OnboardingResponse{
		Business: toBusinessResponse(b, regime),
		Owner:    ToUserResponse(owner),
		Token:    token,
	}, nil
}

// Get devuelve el negocio con su régimen clasificado.
func (uc *BusinessUseCase) Get(ctx context.Context, businessID string) (*dto.BusinessResponse, error) {
	b, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	regime, _ := tax.Classify(b.LegalType, b.FiscalRegime)
	resp := toBusinessResponse(b, regime)
	return &resp, nil
}

// Update aplica los cambios, valida identificadores y reclasifica el negocio.
func (uc *BusinessUseCase) Update(ctx context.Context, businessID string, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	b, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	setString(&b.Name, in.Name)
	setString(&b.LegalType, in.LegalType)
	setString(&b.FiscalRegime, in.FiscalRegime)
	setString(&b.LegalForm, in.LegalForm)
	setString(&b.RC, in.RC)
	setString(&b.NIF, in.NIF)
	setString(&b.AI, in.AI)
	setString(&b.NIS, in.NIS)
	setString(&b.AutoEntrepreneurCard, in.AutoEntrepreneurCard)
	setString(&b.ActivityKind, in.ActivityKind)
	setString(&b.Address, in.Address)
	setString(&b.Phone, in.Phone)
	setString(&b.Email, in.Email)
	if in.Capital != nil {
		b.Capital = *in.Capital
	}
	regime, err := validateBusiness(b)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now()
	if err := uc.businessRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	resp := toBusinessResponse(b, regime)
	return &resp, nil
}

// TaxConfiguration módulos fiscales, pie de factura y menciones legales del negocio.
func (uc *BusinessUseCase) TaxConfiguration(ctx context.Context, businessID string) (*dto.TaxConfigResponse, error) {
	b, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	cfg, err := tax.ConfigureTaxModules(b)
	if err != nil {
		return nil, err
	}
	return &dto.TaxConfigResponse{BusinessID: b.ID, Configuration: cfg}, nil
}

// ApplicableRates tasas del régimen del negocio vigentes en la fecha at.
func (uc *BusinessUseCase) ApplicableRates(ctx context.Context, businessID string, at time.Time) (*dto.TaxRatesResponse, error) {
	b, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	regime, err := tax.Classify(b.LegalType, b.FiscalRegime)
	if err != nil {
		return nil, err
	}
	res, err := uc.resolver.Resolve(ctx, b.ID, at)
	if err != nil {
		return nil, err
	}
	return &dto.TaxRatesResponse{
		BusinessID: b.ID,
		At:         at.Format("2006-01-02"),
		Rates:      res.Rates.For(regime),
	}, nil
}

func (uc *BusinessUseCase) load(ctx context.Context, businessID string) (*entity.Business, error) {
	b, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// validateBusiness comprueba identificadores, capital y clasificación fiscal.
func validateBusiness(b *entity.Business) (tax.Regime, error) {
	if b.Name == "" {
		return tax.RegimeUnsupported, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if b.Capital.IsNegative() {
		return tax.RegimeUnsupported, fmt.Errorf("%w: el capital no puede ser negativo", domain.ErrInvalidInput)
	}
	ids := fiscal.Identifiers{RC: b.RC, NIF: b.NIF, AI: b.AI, NIS: b.NIS}
	if err := ids.Validate(); err != nil {
		return tax.RegimeUnsupported, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return tax.Classify(b.LegalType, b.FiscalRegime)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func toBusinessResponse(b *entity.Business, regime tax.Regime) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:                   b.ID,
		OwnerUserID:          b.OwnerUserID,
		Name:                 b.Name,
		LegalType:            b.LegalType,
		FiscalRegime:         b.FiscalRegime,
		LegalForm:            b.LegalForm,
		Capital:              b.Capital,
		RC:                   b.RC,
		NIF:                  b.NIF,
		AI:                   b.AI,
		NIS:                  b.NIS,
		AutoEntrepreneurCard: b.AutoEntrepreneurCard,
		ActivityKind:         b.ActivityKind,
		Address:              b.Address,
		Phone:                b.Phone,
		Email:                b.Email,
		Status:               b.Status,
		Regime:               regime,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

// ToUserResponse convierte un usuario a su DTO público (sin hash).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		BusinessID: u.BusinessID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
