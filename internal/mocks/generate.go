// Package mocks provides mock implementations of the console's ports for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	products := mocks.NewMockProductGateway(ctrl)
//	products.EXPECT().List(gomock.Any()).Return([]model.Product{p}, nil)
package mocks

// Generate mock for AuthGateway interface from internal/ports package.
// Login, Logout, ValidateSession, Register, CurrentUser, IsAuthenticated
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_gateway_mock.go github.com/target/catalog-admin/internal/ports AuthGateway

// Generate mock for ProductGateway interface from internal/ports package.
// List, Get, Create, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=product_gateway_mock.go github.com/target/catalog-admin/internal/ports ProductGateway

// Generate mock for Navigator interface from internal/ports package.
// Navigate, NavigateURL, Current
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=navigator_mock.go github.com/target/catalog-admin/internal/ports Navigator

// Generate mock for APIClient interface from internal/ports package.
// Do
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=api_client_mock.go github.com/target/catalog-admin/internal/ports APIClient
