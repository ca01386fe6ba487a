package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/scentdesk/scentdesk/internal/customers"
	"github.com/scentdesk/scentdesk/internal/orders"
)

var customerHeader = []string{
	"id", "first_name", "last_name", "email", "phone", "company",
	"country", "city", "address", "reference", "date",
	"email_verified", "phone_verified", "domain_verified",
}

// WriteCustomersCSV streams the selection as CSV, one row per customer.
// Dates are rendered DD/MM/YYYY to match what the edit forms accept.
func WriteCustomersCSV(w io.Writer, list []customers.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(customerHeader); err != nil {
		return err
	}
	for _, c := range list {
		date := ""
		if c.Date != nil {
			date = c.Date.Format("02/01/2006")
		}
		row := []string{
			strconv.FormatInt(c.ID, 10),
			c.FirstName,
			c.LastName,
			deref(c.Email),
			deref(c.Phone),
			deref(c.Company),
			deref(c.Country),
			deref(c.City),
			deref(c.Address),
			deref(c.Reference),
			date,
			strconv.FormatBool(c.EmailVerified),
			strconv.FormatBool(c.PhoneVerified),
			strconv.FormatBool(c.DomainVerified),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var orderHeader = []string{"id", "customer_id", "reference", "status", "total", "comment", "created_at"}

// WriteOrdersCSV streams the selection as CSV, one row per order.
func WriteOrdersCSV(w io.Writer, list []orders.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orderHeader); err != nil {
		return err
	}
	for _, o := range list {
		row := []string{
			strconv.FormatInt(o.ID, 10),
			strconv.FormatInt(o.CustomerID, 10),
			o.Reference,
			string(o.Status),
			fmt.Sprintf("%.2f", o.Total),
			o.Comment,
			o.CreatedAt.Format("02/01/2006 15:04"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
