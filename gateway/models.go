package gateway

import "encoding/json"

// Envelope is the standard response wrapper of the banking API.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Meta       *PageMeta       `json:"meta,omitempty"`
}

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// LoginRequest is the credential pair posted to /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the data of a successful login.
type LoginResult struct {
	Token string   `json:"token"`
	Roles []string `json:"roles"`
}

// RegisterRequest creates a customer.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// RoleRef is a role as the user resource lists it.
type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is the profile resource.
type User struct {
	ID                int64     `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	PhoneNumber       string    `json:"phoneNumber"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	Active            bool      `json:"active"`
	AuthProvider      string    `json:"authProvider,omitempty"`
	Roles             []RoleRef `json:"roles,omitempty"`
	Accounts          []Account `json:"accounts,omitempty"`
}

// Account is one bank account. Timestamps are kept as the API sends them.
type Account struct {
	ID            int64         `json:"id"`
	AccountNumber string        `json:"accountNumber"`
	AccountType   string        `json:"accountType"`
	Balance       float64       `json:"balance"`
	Currency      string        `json:"currency"`
	Status        string        `json:"status"`
	CreatedAt     string        `json:"createdAt"`
	Transactions  []Transaction `json:"transactions,omitempty"`
}

// Transaction types.
const (
	TypeDeposit    = "DEPOSIT"
	TypeWithdrawal = "WITHDRAWAL"
	TypeTransfer   = "TRANSFER"
)

// Transaction is one ledger entry.
type Transaction struct {
	ID                 int64   `json:"id"`
	Amount             float64 `json:"amount"`
	TransactionType    string  `json:"transactionType"`
	Description        string  `json:"description"`
	TransactionDate    string  `json:"transactionDate"`
	Status             string  `json:"status"`
	SourceAccount      string  `json:"sourceAccount"`
	DestinationAccount string  `json:"destinationAccount"`
}

// Debit reports whether t takes money out of account.
func (t Transaction) Debit(account string) bool {
	switch t.TransactionType {
	case TypeWithdrawal:
		return true
	case TypeTransfer:
		return t.DestinationAccount != account
	}
	return false
}

// TransactionRequest is the body posted to /transactions for transfers and deposits.
type TransactionRequest struct {
	TransactionType          string  `json:"transactionType"`
	Amount                   float64 `json:"amount"`
	AccountNumber            string  `json:"accountNumber"`
	DestinationAccountNumber string  `json:"destinationAccountNumber,omitempty"`
	Description              string  `json:"description,omitempty"`
}

// TransactionPage is one page of an account's history.
type TransactionPage struct {
	Items []Transaction
	Meta  PageMeta
}

// SystemTotals are the auditor dashboard counters.
type SystemTotals struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalAccounts     int64 `json:"totalAccounts"`
	TotalTransactions int64 `json:"totalTransactions"`
}
