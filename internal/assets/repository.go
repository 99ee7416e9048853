package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// ErrDealNotFound means no deal master row exists
var ErrDealNotFound = errors.New("deal not found")

// Repository loads deal portfolios for compliance runs
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Pool returns the underlying database pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.db
}

// GetDeal retrieves the deal master row
func (r *Repository) GetDeal(ctx context.Context, dealID string) (*contracts.Deal, error) {
	query := `
		SELECT
			deal_id,
			deal_name,
			manager,
			mag_version,
			stated_maturity,
			principal_proceeds,
			active
		FROM clo.deals
		WHERE deal_id = $1
	`

	var d contracts.Deal
	err := r.db.QueryRow(ctx, query, dealID).Scan(
		&d.DealID,
		&d.DealName,
		&d.Manager,
		&d.MagVersion,
		&d.StatedMaturity,
		&d.PrincipalProceeds,
		&d.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDealNotFound, dealID)
		}
		return nil, fmt.Errorf("query deal: %w", err)
	}
	return &d, nil
}

// ListActiveDeals returns the IDs of deals flagged active
// (스케줄러 야간 배치 대상)
func (r *Repository) ListActiveDeals(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT deal_id FROM clo.deals WHERE active = true ORDER BY deal_id`)
	if err != nil {
		return nil, fmt.Errorf("query active deals: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deal id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active deals: %w", err)
	}
	return ids, nil
}

// LoadSnapshot loads a deal's portfolio as of an analysis date.
// deal_assets.par_amount가 자산 마스터 par를 오버라이드한다 (딜별 보유량).
// Boolean 플래그 NULL은 false로 읽는다.
func (r *Repository) LoadSnapshot(ctx context.Context, dealID string, analysisDate time.Time) (*contracts.DealSnapshot, error) {
	deal, err := r.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			a.asset_id,
			COALESCE(a.issuer_id, ''),
			COALESCE(a.issuer_name, ''),
			COALESCE(a.bond_loan, ''),
			COALESCE(a.seniority, ''),
			COALESCE(a.sp_priority_category, ''),
			COALESCE(a.mdy_asset_category, ''),
			COALESCE(a.country, ''),
			COALESCE(a.sp_industry, ''),
			COALESCE(a.mdy_industry, ''),
			COALESCE(a.mdy_rating, ''),
			COALESCE(a.mdy_dp_rating, ''),
			COALESCE(a.mdy_dp_rating_warf, ''),
			COALESCE(a.mdy_facility_rating, ''),
			COALESCE(a.mdy_issuer_rating, ''),
			COALESCE(a.mdy_snr_sec_rating, ''),
			COALESCE(a.mdy_sub_rating, ''),
			COALESCE(a.sp_rating, ''),
			COALESCE(a.sp_facility_rating, ''),
			COALESCE(a.sp_issuer_rating, ''),
			COALESCE(da.par_amount, a.par_amount, 0),
			COALESCE(a.market_value, 0),
			COALESCE(a.coupon, 0),
			COALESCE(a.coupon_type, ''),
			COALESCE(a.cpn_spread, 0),
			COALESCE(a.libor_floor, 0),
			COALESCE(a.facility_size, 0),
			COALESCE(a.unfunded_amount, 0),
			COALESCE(a.wal, 0),
			COALESCE(a.mdy_recovery_rate, 0),
			COALESCE(a.pay_freq, 0),
			COALESCE(a.maturity, '0001-01-01'::date),
			COALESCE(a.default_asset, false),
			COALESCE(a.dip, false),
			COALESCE(a.cov_lite, false),
			COALESCE(a.bridge_loan, false),
			COALESCE(a.pik_asset, false),
			COALESCE(a.current_pay, false),
			COALESCE(a.participation, false),
			COALESCE(a.loc, false)
		FROM clo.deal_assets da
		JOIN clo.assets a ON a.asset_id = da.asset_id
		WHERE da.deal_id = $1
		  AND da.position_date = (
			SELECT MAX(position_date)
			FROM clo.deal_assets
			WHERE deal_id = $1 AND position_date <= $2
		  )
	`

	rows, err := r.db.Query(ctx, query, dealID, analysisDate)
	if err != nil {
		return nil, fmt.Errorf("query deal assets: %w", err)
	}
	defer rows.Close()

	snapshot := &contracts.DealSnapshot{
		DealID:            dealID,
		AnalysisDate:      analysisDate,
		Assets:            make(map[string]*contracts.Asset),
		PrincipalProceeds: deal.PrincipalProceeds,
		MagVersion:        deal.MagVersion,
	}

	for rows.Next() {
		var a contracts.Asset
		if err := rows.Scan(
			&a.AssetID,
			&a.IssuerID,
			&a.IssuerName,
			&a.BondLoan,
			&a.Seniority,
			&a.SPPriorityCategory,
			&a.MdyAssetCategory,
			&a.Country,
			&a.SPIndustry,
			&a.MdyIndustry,
			&a.MdyRating,
			&a.MdyDPRating,
			&a.MdyDPRatingWARF,
			&a.MdyFacilityRating,
			&a.MdyIssuerRating,
			&a.MdySnrSecRating,
			&a.MdySubRating,
			&a.SPRating,
			&a.SPFacilityRating,
			&a.SPIssuerRating,
			&a.ParAmount,
			&a.MarketValue,
			&a.Coupon,
			&a.CouponType,
			&a.CpnSpread,
			&a.LiborFloor,
			&a.FacilitySize,
			&a.UnfundedAmount,
			&a.WAL,
			&a.MdyRecoveryRate,
			&a.PayFreq,
			&a.Maturity,
			&a.DefaultAsset,
			&a.DIP,
			&a.CovLite,
			&a.BridgeLoan,
			&a.PIKAsset,
			&a.CurrentPay,
			&a.Participation,
			&a.LOC,
		); err != nil {
			return nil, fmt.Errorf("scan deal asset: %w", err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("invalid asset row: %w", err)
		}
		snapshot.Assets[a.AssetID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deal assets: %w", err)
	}

	return snapshot, nil
}

// UpsertAsset writes one asset master row
func (r *Repository) UpsertAsset(ctx context.Context, a *contracts.Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO clo.assets (
			asset_id, issuer_id, issuer_name, bond_loan, seniority,
			sp_priority_category, mdy_asset_category, country,
			sp_industry, mdy_industry,
			mdy_rating, mdy_dp_rating, mdy_dp_rating_warf,
			mdy_facility_rating, mdy_issuer_rating, mdy_snr_sec_rating, mdy_sub_rating,
			sp_rating, sp_facility_rating, sp_issuer_rating,
			par_amount, market_value, coupon, coupon_type, cpn_spread, libor_floor,
			facility_size, unfunded_amount, wal, mdy_recovery_rate, pay_freq, maturity,
			default_asset, dip, cov_lite, bridge_loan, pik_asset,
			current_pay, participation, loc,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32,
			$33, $34, $35, $36, $37, $38, $39, $40,
			NOW()
		)
		ON CONFLICT (asset_id) DO UPDATE SET
			issuer_id = EXCLUDED.issuer_id,
			issuer_name = EXCLUDED.issuer_name,
			bond_loan = EXCLUDED.bond_loan,
			seniority = EXCLUDED.seniority,
			sp_priority_category = EXCLUDED.sp_priority_category,
			mdy_asset_category = EXCLUDED.mdy_asset_category,
			country = EXCLUDED.country,
			sp_industry = EXCLUDED.sp_industry,
			mdy_industry = EXCLUDED.mdy_industry,
			mdy_rating = EXCLUDED.mdy_rating,
			mdy_dp_rating = EXCLUDED.mdy_dp_rating,
			mdy_dp_rating_warf = EXCLUDED.mdy_dp_rating_warf,
			mdy_facility_rating = EXCLUDED.mdy_facility_rating,
			mdy_issuer_rating = EXCLUDED.mdy_issuer_rating,
			mdy_snr_sec_rating = EXCLUDED.mdy_snr_sec_rating,
			mdy_sub_rating = EXCLUDED.mdy_sub_rating,
			sp_rating = EXCLUDED.sp_rating,
			sp_facility_rating = EXCLUDED.sp_facility_rating,
			sp_issuer_rating = EXCLUDED.sp_issuer_rating,
			par_amount = EXCLUDED.par_amount,
			market_value = EXCLUDED.market_value,
			coupon = EXCLUDED.coupon,
			coupon_type = EXCLUDED.coupon_type,
			cpn_spread = EXCLUDED.cpn_spread,
			libor_floor = EXCLUDED.libor_floor,
			facility_size = EXCLUDED.facility_size,
			unfunded_amount = EXCLUDED.unfunded_amount,
			wal = EXCLUDED.wal,
			mdy_recovery_rate = EXCLUDED.mdy_recovery_rate,
			pay_freq = EXCLUDED.pay_freq,
			maturity = EXCLUDED.maturity,
			default_asset = EXCLUDED.default_asset,
			dip = EXCLUDED.dip,
			cov_lite = EXCLUDED.cov_lite,
			bridge_loan = EXCLUDED.bridge_loan,
			pik_asset = EXCLUDED.pik_asset,
			current_pay = EXCLUDED.current_pay,
			participation = EXCLUDED.participation,
			loc = EXCLUDED.loc,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		a.AssetID, a.IssuerID, a.IssuerName, a.BondLoan, a.Seniority,
		a.SPPriorityCategory, a.MdyAssetCategory, a.Country,
		a.SPIndustry, a.MdyIndustry,
		a.MdyRating, a.MdyDPRating, a.MdyDPRatingWARF,
		a.MdyFacilityRating, a.MdyIssuerRating, a.MdySnrSecRating, a.MdySubRating,
		a.SPRating, a.SPFacilityRating, a.SPIssuerRating,
		a.ParAmount, a.MarketValue, a.Coupon, a.CouponType, a.CpnSpread, a.LiborFloor,
		a.FacilitySize, a.UnfundedAmount, a.WAL, a.MdyRecoveryRate, a.PayFreq, a.Maturity,
		a.DefaultAsset, a.DIP, a.CovLite, a.BridgeLoan, a.PIKAsset,
		a.CurrentPay, a.Participation, a.LOC,
	)
	if err != nil {
		return fmt.Errorf("upsert asset: %w", err)
	}
	return nil
}
