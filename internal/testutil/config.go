package testutil

import (
	"os"
	"strconv"
)

const (
	// Test token environment variables
	TestMarketplaceToken = "TEST_MARKETPLACE_TOKEN"
	TestSellerID         = "TEST_SELLER_ID"

	// Default test values when environment variables are not set
	DefaultTestToken    = "test-token"
	DefaultTestSellerID = "SELLER-TEST"
)

// GetTestValue returns a test value from environment variable or default
func GetTestValue(envVar, defaultValue string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return defaultValue
}

// GetTestMarketplaceToken returns the token used against recorded API fixtures
func GetTestMarketplaceToken() string {
	return GetTestValue(TestMarketplaceToken, DefaultTestToken)
}

// GetTestSellerID returns the seller identifier used in test offers
func GetTestSellerID() string {
	return GetTestValue(TestSellerID, DefaultTestSellerID)
}

// IsTestMode returns true if we're running in test mode
func IsTestMode() bool {
	testMode := os.Getenv("TEST_MODE")
	if testMode == "" {
		return true // Default to test mode if not specified
	}

	enabled, _ := strconv.ParseBool(testMode)
	return enabled
}

// GetTestBaseURL returns a test base URL for the given service
func GetTestBaseURL(service string) string {
	switch service {
	case "marketplace":
		return "https://api.marketplace.test"
	case "supplier":
		return "https://portal.supplier.test"
	default:
		return "https://api.test.local"
	}
}
