package model

// Account node keys.
const (
	KeyBankID        Key = "bank_id"
	KeyBranchID      Key = "branch_id"
	KeyRoutingNumber Key = "routing_number"
	KeyAccountID     Key = "account_id"
	KeyAccountType   Key = "account_type"
	KeyCurrency      Key = "currency"
	KeyInstitution   Key = "institution"
	KeyStatement     Key = "statement"
)

// Institution node keys.
const (
	KeyFID Key = "fid"
	KeyOrg Key = "org"
)

// Statement node keys.
const (
	KeyStartDate        Key = "start_date"
	KeyEndDate          Key = "end_date"
	KeyBalanceDate      Key = "balance_date"
	KeyBalance          Key = "balance"
	KeyAvailableBalance Key = "available_balance"
	KeyTransactions     Key = "transactions"
)

// Transaction node keys.
const (
	KeyID       Key = "id"
	KeyDate     Key = "date"
	KeyType     Key = "type"
	KeyAmount   Key = "amount"
	KeyMemo     Key = "memo"
	KeyPayee    Key = "payee"
	KeyCheckNum Key = "checknum"
)

// Canonical account type tags.
const (
	AccountTypeChecking   = "CHECKING"
	AccountTypeSavings    = "SAVINGS"
	AccountTypeCreditCard = "CREDITCARD"
)

// Canonical transaction direction tags.
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)
