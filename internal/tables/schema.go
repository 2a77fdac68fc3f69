package tables

import (
	"time"
)

// Table names. The three hash tables are thin companions carrying only
// the shared keys, used for join-key distribution without touching the
// wide tables.
const (
	TableAuthorization     = "authorization"
	TableClearing          = "clearing"
	TableChargeback        = "chargeback"
	TableAuthorizationHash = "authorization_hash"
	TableClearingHash      = "clearing_hash"
	TableChargebackHash    = "chargeback_hash"
)

// FamilyFor maps a table to its destination family.
func FamilyFor(table string) string {
	switch table {
	case TableAuthorization, TableAuthorizationHash:
		return TableAuthorization
	case TableClearing, TableClearingHash:
		return TableClearing
	case TableChargeback, TableChargebackHash:
		return TableChargeback
	default:
		return ""
	}
}

// Keys carries the four join keys present on every row of every table.
type Keys struct {
	HashPAN        string    `parquet:"hash_pan"`
	SequenceNumber int64     `parquet:"sequence_number"`
	ProcessDate    time.Time `parquet:"process_date,timestamp(microsecond)"`
	InsertDate     time.Time `parquet:"insert_date,timestamp(microsecond)"`
}

// HashRow is one row of a hash companion table: the keys and nothing else.
type HashRow struct {
	Keys
}

// AuthorizationRow is one row of the authorization table.
type AuthorizationRow struct {
	Keys

	// Transaction identity
	TransactionID          string    `parquet:"transaction_id"`
	TransactionType        string    `parquet:"transaction_type"`
	TransactionTypeCd      string    `parquet:"transaction_type_cd"`
	TransactionStatusCode  string    `parquet:"transaction_status_code"`
	TransactionAmount      string    `parquet:"transaction_amount"`
	TransactionAmountCents int64     `parquet:"transaction_amount_cents"`
	TransactionFeeAmount   string    `parquet:"transaction_fee_amount"`
	TransactionTimestamp   time.Time `parquet:"transaction_timestamp,timestamp(microsecond)"`
	TransactionSource      string    `parquet:"transaction_source"`
	TransactionCountryCode string    `parquet:"transaction_country_code"`
	CurrencyCode           string    `parquet:"currency_code"`
	LocalCurrency          string    `parquet:"local_currency"`

	// Authorization outcome
	MTI                 string `parquet:"mti"`
	AuthResponseCode    string `parquet:"auth_response_code"`
	AuthResponseMessage string `parquet:"auth_response_message"`
	DeclineReason       string `parquet:"decline_reason"`
	AuthData            string `parquet:"auth_data"`
	AuthMethod          string `parquet:"auth_method"`

	// 3DS / authentication
	AuthenticationStatus string `parquet:"authentication_status"`
	AVSResult            string `parquet:"avs_result"`
	CVVResult            string `parquet:"cvv_result"`
	CAVVResult           string `parquet:"cavv_result"`
	ECIIndicator         string `parquet:"eci_indicator"`
	ThreeDSVersion       string `parquet:"three_ds_version"`
	ACSTransactionID     string `parquet:"acs_transaction_id"`
	DirectoryServerID    string `parquet:"directory_server_id"`
	SCAResult            string `parquet:"sca_result"`
	StepUpIndicator      string `parquet:"step_up_indicator"`
	ExemptionType        string `parquet:"exemption_type"`
	EnrollmentStatus     string `parquet:"enrollment_status"`

	// Card
	CardBrand             string `parquet:"card_brand"`
	CardType              string `parquet:"card_type"`
	CardProductID         string `parquet:"card_product_id"`
	CardPresentCode       string `parquet:"card_present_code"`
	CardholderPresentCode string `parquet:"cardholder_present_code"`
	CardholderCountry     string `parquet:"cardholder_country"`
	CardholderCurrency    string `parquet:"cardholder_currency"`
	CardholderNameHash    string `parquet:"cardholder_name_hash"`
	ExpiryDate            string `parquet:"expiry_date"`

	// Point of sale
	POSEntryMode     string `parquet:"pos_entry_mode"`
	POSConditionCode string `parquet:"pos_condition_code"`
	TerminalID       string `parquet:"terminal_id"`
	TerminalType     string `parquet:"terminal_type"`

	// Merchant
	MerchantID            string `parquet:"merchant_id"`
	MerchantName          string `parquet:"merchant_name"`
	MerchantDBA           string `parquet:"merchant_dba"`
	MerchantLegalName     string `parquet:"merchant_legal_name"`
	MerchantCode          string `parquet:"merchant_code"`
	MerchantCategoryCode  string `parquet:"merchant_category_code"`
	MerchantCountryCode   string `parquet:"merchant_country_code"`
	MerchantRiskIndicator string `parquet:"merchant_risk_indicator"`

	// Participants and rates
	AcquirerID          string  `parquet:"acquirer_id"`
	AcquirerCountryCode string  `parquet:"acquirer_country_code"`
	AcquirerRate        float64 `parquet:"acquirer_rate"`
	IssuerID            string  `parquet:"issuer_id"`
	IssuerCountryCode   string  `parquet:"issuer_country_code"`
	IssuerCurrency      string  `parquet:"issuer_currency"`
	IssuerRate          float64 `parquet:"issuer_rate"`
	NetworkID           string  `parquet:"network_id"`
	NetworkRate         float64 `parquet:"network_rate"`
	RiskRate            float64 `parquet:"risk_rate"`
	RiskScoreTier       string  `parquet:"risk_score_tier"`
	RiskAnalysisResult  string  `parquet:"risk_analysis_result"`
	ProcessingRate      float64 `parquet:"processing_rate"`
	ExchangeRate        float64 `parquet:"exchange_rate"`

	// Customer and device
	CustomerID        string `parquet:"customer_id"`
	SessionID         string `parquet:"session_id"`
	DeviceFingerprint string `parquet:"device_fingerprint"`
	DeviceChannel     string `parquet:"device_channel"`
	IPAddress         string `parquet:"ip_address"`
	UserAgent         string `parquet:"user_agent"`
	BrowserInfo       string `parquet:"browser_info"`

	// Account and payment instrument
	AccountAgeIndicator    string `parquet:"account_age_indicator"`
	AccountChangeIndicator string `parquet:"account_change_indicator"`
	PaymentMethod          string `parquet:"payment_method"`
	WalletType             string `parquet:"wallet_type"`
	TokenizationMethod     string `parquet:"tokenization_method"`
	TokenRequestorID       string `parquet:"token_requestor_id"`
	CryptogramType         string `parquet:"cryptogram_type"`
	ChannelType            string `parquet:"channel_type"`

	// Behavioral
	TipAmountCents        int64  `parquet:"tip_amount_cents"`
	DailyTransactionCount int32  `parquet:"daily_transaction_count"`
	VelocityCheckResult   string `parquet:"velocity_check_result"`
	AlertPattern          string `parquet:"alert_pattern"`
}

// TableName returns the canonical table name.
func (AuthorizationRow) TableName() string { return TableAuthorization }

// ClearingRow is one row of the clearing table. It carries the
// authorization view of the transaction plus the clearing, settlement,
// reconciliation and interchange outcome.
type ClearingRow struct {
	AuthorizationRow

	// Clearing
	ClearingID              string `parquet:"clearing_id"`
	ClearingBatchID         string `parquet:"clearing_batch_id"`
	ClearingNetwork         string `parquet:"clearing_network"`
	ClearingStatus          string `parquet:"clearing_status"`
	ClearingResponseCode    string `parquet:"clearing_response_code"`
	ClearingResponseMessage string `parquet:"clearing_response_message"`
	ClearingCurrency        string `parquet:"clearing_currency"`
	ClearingCountryCode     string `parquet:"clearing_country_code"`

	// Settlement
	SettlementID          string `parquet:"settlement_id"`
	SettlementBatchID     string `parquet:"settlement_batch_id"`
	SettlementAmount      string `parquet:"settlement_amount"`
	SettlementStatus      string `parquet:"settlement_status"`
	SettlementCurrency    string `parquet:"settlement_currency"`
	SettlementCountryCode string `parquet:"settlement_country_code"`
	OriginalCurrency      string `parquet:"original_currency"`

	// Interchange
	InterchangeRate        float64 `parquet:"interchange_rate"`
	InterchangeRateType    string  `parquet:"interchange_rate_type"`
	InterchangeCategory    string  `parquet:"interchange_category"`
	InterchangeProgram     string  `parquet:"interchange_program"`
	InterchangeAmountCents int64   `parquet:"interchange_amount_cents"`

	// Reconciliation
	ReconciliationStatus            string `parquet:"reconciliation_status"`
	ReconciliationFee               string `parquet:"reconciliation_fee"`
	ReconciliationFeeProcessingCode string `parquet:"reconciliation_fee_processing_code"`

	// Post-auth adjustments
	RefundStatus       string `parquet:"refund_status"`
	RefundAmountCents  int64  `parquet:"refund_amount_cents"`
	ReversalCount      int32  `parquet:"reversal_count"`
	ReversalAmount     string `parquet:"reversal_amount"`
	ReversalAmountCents int64 `parquet:"reversal_amount_cents"`
	VoidStatus         string `parquet:"void_status"`
	AdjustmentStatus   string `parquet:"adjustment_status"`
	DisputeStatus      string `parquet:"dispute_status"`

	// Fulfillment
	ShippingAmountCents int64  `parquet:"shipping_amount_cents"`
	HandlingAmountCents int64  `parquet:"handling_amount_cents"`
	ShipAddrLine1       string `parquet:"ship_addr_line1"`
	ShipAddrCity        string `parquet:"ship_addr_city"`
	ShipAddrState       string `parquet:"ship_addr_state"`
	ShipAddrPostCode    string `parquet:"ship_addr_post_code"`
	ShipAddrCountry     string `parquet:"ship_addr_country"`
}

// TableName returns the canonical table name.
func (ClearingRow) TableName() string { return TableClearing }

// ChargebackRow is one row of the chargeback table. Its keys reference
// the originating authorization exactly.
type ChargebackRow struct {
	Keys

	ChargebackCount       int32  `parquet:"chargeback_count"`
	ChargebackAmount      string `parquet:"chargeback_amount"`
	ChargebackAmountCents int64  `parquet:"chargeback_amount_cents"`
	ChargebackReasonCode  string `parquet:"chargeback_reason_code"`
	ChargebackStatus      string `parquet:"chargeback_status"`
	DisputeStatus         string `parquet:"dispute_status"`
	OriginalTransactionID string `parquet:"original_transaction_id"`
	TransactionAmount     string `parquet:"transaction_amount"`
	TransactionType       string `parquet:"transaction_type"`
	CardBrand             string `parquet:"card_brand"`
	MerchantID            string `parquet:"merchant_id"`
	MerchantCategoryCode  string `parquet:"merchant_category_code"`
	IssuerCountryCode     string `parquet:"issuer_country_code"`
	NetworkID             string `parquet:"network_id"`
}

// TableName returns the canonical table name.
func (ChargebackRow) TableName() string { return TableChargeback }

// SchemaVersion is the version of the table schemas.
// Increment this when making breaking changes.
const SchemaVersion = "1.0.0"
