package roles

import "time"

// Permission flag names understood by the RBAC middleware.
const (
	PermFullAccess    = "full_access"
	PermCustomersView = "customers_view"
	PermCustomersEdit = "customers_edit"
	PermGroupsEdit    = "groups_edit"
	PermOrdersEdit    = "orders_edit"
	PermTeamManage    = "team_manage"
	PermEmailSending  = "email_sending"
)

// Role groups permission flags and monthly usage quotas.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	FullAccess    bool `json:"full_access"`
	CustomersView bool `json:"customers_view"`
	CustomersEdit bool `json:"customers_edit"`
	GroupsEdit    bool `json:"groups_edit"`
	OrdersEdit    bool `json:"orders_edit"`
	TeamManage    bool `json:"team_manage"`
	EmailSending  bool `json:"email_sending"`

	MonthlyCSVQuota        int `json:"monthly_csv_quota"`
	MonthlyExtractionQuota int `json:"monthly_extraction_quota"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Permissions returns the names of all granted flags. full_access implies
// every other flag.
func (r Role) Permissions() []string {
	if r.FullAccess {
		return []string{
			PermFullAccess, PermCustomersView, PermCustomersEdit,
			PermGroupsEdit, PermOrdersEdit, PermTeamManage, PermEmailSending,
		}
	}
	var perms []string
	for flag, granted := range map[string]bool{
		PermCustomersView: r.CustomersView,
		PermCustomersEdit: r.CustomersEdit,
		PermGroupsEdit:    r.GroupsEdit,
		PermOrdersEdit:    r.OrdersEdit,
		PermTeamManage:    r.TeamManage,
		PermEmailSending:  r.EmailSending,
	} {
		if granted {
			perms = append(perms, flag)
		}
	}
	return perms
}
