package authz

import (
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/sirupsen/logrus"
)

const (
	ResourceBookings      = "bookings"
	ResourceProperties    = "properties"
	ResourcePrices        = "prices"
	ResourceNotifications = "notifications"
	ResourceUsers         = "users"

	ActionRead  = "read"
	ActionWrite = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

// Staff run the front desk; admins additionally own the catalogue, the price
// calendar and user management. Customers have no back-office access.
var policies = [][]string{
	{string(models.RoleStaff), ResourceBookings, "*"},
	{string(models.RoleStaff), ResourceNotifications, ActionRead},
	{string(models.RoleStaff), ResourceProperties, ActionRead},
	{string(models.RoleStaff), ResourcePrices, ActionRead},
	{string(models.RoleAdmin), ResourceProperties, "*"},
	{string(models.RoleAdmin), ResourcePrices, "*"},
	{string(models.RoleAdmin), ResourceUsers, "*"},
}

var inheritance = [][]string{
	{string(models.RoleAdmin), string(models.RoleStaff)},
}

type Authorizer struct {
	enforcer *casbin.Enforcer
}

func New() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(inheritance); err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: e}, nil
}

// Allowed reports whether role may perform action on resource. Enforcement
// errors deny.
func (a *Authorizer) Allowed(role models.Role, resource, action string) bool {
	ok, err := a.enforcer.Enforce(string(role), resource, action)
	if err != nil {
		logrus.WithError(err).Error("Authorization check failed")
		return false
	}
	return ok
}
