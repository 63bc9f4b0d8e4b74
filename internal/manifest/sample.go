package manifest

import "github.com/nickcecere/fcat/internal/store"

// Sample returns the built-in demonstration catalog. Timestamps are left zero
// so the store assigns them on insert.
func Sample() []store.Record {
	return []store.Record{
		{ID: 1, Name: "Q1 Financial Report.docx", Size: 250, Type: TypeDocument,
			Content: "First quarter financial results for 2023.", Tags: []string{"report", "financial", "Q1"}},
		{ID: 2, Name: "Company Logo.png", Size: 450, Type: TypeImage,
			Content: "Binary image content...", Tags: []string{"logo", "branding"}},
		{ID: 3, Name: "Customer Data 2023.csv", Size: 720, Type: TypeSpreadsheet,
			Content: "Customer,Email,Purchase,Date", Tags: []string{"customer", "data", "2023"}},
		{ID: 4, Name: "Annual Presentation.pptx", Size: 1200, Type: TypePresentation,
			Content: "Annual company presentation for stakeholders", Tags: []string{"presentation", "company", "annual"}},
		{ID: 5, Name: "Q2 Financial Rport.docx", Size: 275, Type: TypeDocument,
			Content: "Second quarter financial results for 2023.", Tags: []string{"report", "financial", "Q2"}},
		{ID: 6, Name: "User Authentication.js", Size: 15, Type: TypeCode,
			Content: "function authenticate(user, password) { /* code */ }", Tags: []string{"authentication", "javascript"}},
		{ID: 7, Name: "Customer Data - Backup.csv", Size: 890, Type: TypeSpreadsheet,
			Content: "Customer,Email,Purchase,Date,Location", Tags: []string{"backup", "customer", "data"}},
		{ID: 8, Name: "Q3-Finance-Report.docx", Size: 310, Type: TypeDocument,
			Content: "Third quarter financial results for 2023.", Tags: []string{"report", "financial", "Q3"}},
		{ID: 9, Name: "main.css", Size: 22, Type: TypeCode,
			Content: "body { font-family: Arial; color: #333; }", Tags: []string{"code", "css", "styles"}},
		{ID: 10, Name: "4th Quarter Financial Summary.docx", Size: 290, Type: TypeDocument,
			Content: "Fourth quarter financial results for 2023.", Tags: []string{"report", "financial", "Q4"}},
		{ID: 11, Name: "UserData_2023.csv", Size: 720, Type: TypeSpreadsheet,
			Content: "User,Email,LastLogin", Tags: []string{"users", "data", "2023"}},
		{ID: 12, Name: "ExpenseReport_March.xlsx", Size: 340, Type: TypeSpreadsheet,
			Content: "Department,Category,Amount,Date", Tags: []string{"expenses", "report", "march"}},
		{ID: 13, Name: "Marketing Strategy 2023.pptx", Size: 890, Type: TypePresentation,
			Content: "Marketing strategy presentation for 2023", Tags: []string{"marketing", "strategy", "presentation"}},
		{ID: 14, Name: "Product Roadmap.docx", Size: 450, Type: TypeDocument,
			Content: "Product development roadmap for next 12 months", Tags: []string{"product", "roadmap", "development"}},
		{ID: 15, Name: "HR Policy Manual.pdf", Size: 1200, Type: TypeDocument,
			Content: "Company HR policies and procedures", Tags: []string{"HR", "policy", "manual"}},
	}
}
