package service

const (
	MaxTermMonths      = 1200 // 100 años
	MaxBatchSize       = 100  // contratos por request
	BatchConcurrency   = 8
	BalanceTolerance   = 0.01 // tolerancia para considerar saldo liquidado
	workingPlaces      = 12   // precisión interna de los cálculos monetarios
	precisionGuard     = 4    // dígitos extra para factores de descuento
	ratePlaces         = 10
	LowConfidenceLimit = 50.0
	HighConfidenceMax  = 25.0

	// Búsqueda de la tasa implícita (Newton-Raphson)
	ImplicitRateInitialGuess  = 0.01 // 1% mensual
	ImplicitRateTolerance     = 1e-4
	ImplicitRatePVTolerance   = 0.005
	ImplicitRateMaxIterations = 100

	// Exenciones
	ShortTermMaxMonths         = 12
	RenewalProbabilityCutoff   = 50
	HighRiskSpreadOverBaseRate = 5
)

// Valores por defecto de mercado, sobreescribibles por configuración.
const (
	DefaultBaseRate               = 5.0
	DefaultCreditSpread           = 2.0
	DefaultAssetTypeMultiplier    = 1.0
	DefaultCurrency               = "BRL"
	DefaultCurrencyRiskAdjustment = 0.5
)

var assetTypeRisk = map[string]float64{
	"real_estate": 0.2,
	"equipment":   0.5,
	"vehicle":     0.8,
	"machinery":   0.6,
	"technology":  1.2,
	"other":       0.7,
}

var lowValueThresholds = map[string]float64{
	"BRL": 5000,
	"USD": 1000,
	"EUR": 1000,
	"GBP": 1000,
	"CAD": 1000,
	"AUD": 1000,
	"CHF": 1000,
	"JPY": 100000,
}

const defaultLowValueThreshold = 1000.0
