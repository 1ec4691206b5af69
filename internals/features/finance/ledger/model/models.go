package model

// All lists every table owned by the ledger, in migration order.
func All() []any {
	return []any{
		&StudentModel{},
		&ProgramFeeModel{},
		&StudentPromotionModel{},
		&FeeModel{},
		&EmployeeModel{},
		&SalaryModel{},
		&ExpenseModel{},
		&GenerationRunModel{},
	}
}
