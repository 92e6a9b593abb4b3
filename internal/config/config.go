package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Marketplace Marketplace `envPrefix:"MARKETPLACE_"`
	Currency    Currency    `envPrefix:"CURRENCY_"`
	Checkout    Checkout    `envPrefix:"CHECKOUT_"`

	Paypal    Paypal    `envPrefix:"PAYPAL_"`
	BrainTree Braintree `envPrefix:"BRAINTREE_"`
	Paystack  Paystack  `envPrefix:"PAYSTACK_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host          string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port          string `env:"HTTP_PORT" envDefault:"8080"`
	SecureCookies bool   `env:"HTTP_SECURE_COOKIES" envDefault:"false"`
}

type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"sqlite"` // sqlite | mysql
	URL    string `env:"DATABASE_URL" envDefault:"storefront.db"`
}

// Marketplace is the backend REST API the storefront fronts.
type Marketplace struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Currency struct {
	Default         string        `env:"DEFAULT" envDefault:"NGN"`
	RatesURL        string        `env:"RATES_URL" envDefault:"https://open.er-api.com/v6/latest/NGN"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"0s"`
}

type Checkout struct {
	FreeShippingThreshold string   `env:"FREE_SHIPPING_THRESHOLD" envDefault:"100"`
	ShippingFee           string   `env:"SHIPPING_FEE" envDefault:"10"`
	TaxRate               string   `env:"TAX_RATE" envDefault:"0.15"`
	PackagingOptions      []string `env:"PACKAGING_OPTIONS" envDefault:"standard,gift-wrap,framed" envSeparator:","`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT" envDefault:"sandbox"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
	// MerchantAccountID selects the account to settle in; empty uses the default account.
	MerchantAccountID string `env:"MERCHANT_ACCOUNT_ID"`
	// Currency must be the settlement currency of that account. Order totals
	// are converted into it before charging.
	Currency string `env:"CURRENCY" envDefault:"USD"`
}

type Paystack struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.paystack.co"`
	PublicKey  string `env:"PUBLIC_KEY"`
	SecretKey  string `env:"SECRET_KEY"`
}

// Gateways lists the payment gateways that have credentials configured.
func (c *Config) Gateways() []string {
	var gateways []string
	if c.Paypal.ClientID != "" {
		gateways = append(gateways, "paypal")
	}
	if c.BrainTree.MerchantID != "" {
		gateways = append(gateways, "braintree")
	}
	if c.Paystack.SecretKey != "" {
		gateways = append(gateways, "paystack")
	}
	return gateways
}
