package spec

import (
	"fmt"
	"strings"
)

/**
 * Application/environment pair
 * @property {string} Application - Application name
 * @property {string} Environment - Environment name
 * @description
 * The zero value means "not set"; specs and service groups treat an unset
 * pair as absent rather than empty.
 */
type ApplicationEnvironment struct {
	Application string
	Environment string
}

/**
 * Parse an application environment string
 * @param {string} s - Pair in <application>.<environment> form
 * @returns {ApplicationEnvironment} Parsed pair
 * @returns {error} *InvalidApplicationEnvironmentError on grammar violation
 */
func ParseApplicationEnvironment(s string) (ApplicationEnvironment, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ApplicationEnvironment{}, &InvalidApplicationEnvironmentError{Value: s}
	}
	return ApplicationEnvironment{Application: parts[0], Environment: parts[1]}, nil
}

func (ae ApplicationEnvironment) IsZero() bool {
	return ae == ApplicationEnvironment{}
}

func (ae ApplicationEnvironment) String() string {
	return ae.Application + "." + ae.Environment
}

func (ae ApplicationEnvironment) MarshalText() ([]byte, error) {
	return []byte(ae.String()), nil
}

func (ae *ApplicationEnvironment) UnmarshalText(text []byte) error {
	parsed, err := ParseApplicationEnvironment(string(text))
	if err != nil {
		return err
	}
	*ae = parsed
	return nil
}

/**
 * Addressable service group
 * @property {ApplicationEnvironment} AppEnv - Optional app/env scope (zero value when unscoped)
 * @property {string} Service - Service name
 * @property {string} Group - Group name
 * @property {string} Organization - Optional organization (empty when unscoped)
 * @description
 * Rendered as [app.env#]service.group[@organization].
 */
type ServiceGroup struct {
	AppEnv       ApplicationEnvironment
	Service      string
	Group        string
	Organization string
}

/**
 * Construct a service group from parts
 * @param {ApplicationEnvironment} appEnv - App/env scope, zero value for none
 * @param {string} service - Service name, must be non-empty and dot-free
 * @param {string} group - Group name, must be non-empty and dot-free
 * @param {string} organization - Organization, empty for none
 * @returns {ServiceGroup} Constructed group
 * @returns {error} *InvalidServiceGroupError when a part is malformed
 */
func NewServiceGroup(appEnv ApplicationEnvironment, service, group, organization string) (ServiceGroup, error) {
	if !validGroupPart(service) || !validGroupPart(group) {
		return ServiceGroup{}, &InvalidServiceGroupError{Value: fmt.Sprintf("%s.%s", service, group)}
	}
	return ServiceGroup{
		AppEnv:       appEnv,
		Service:      service,
		Group:        group,
		Organization: organization,
	}, nil
}

func validGroupPart(p string) bool {
	return p != "" && !strings.ContainsAny(p, ".#@:")
}

/**
 * Parse a service group string
 * @param {string} s - Group in [app.env#]service.group[@organization] form
 * @returns {ServiceGroup} Parsed group
 * @returns {error} *InvalidServiceGroupError (or the app.env error) on
 *                  grammar violation
 */
func ParseServiceGroup(s string) (ServiceGroup, error) {
	rest := s
	var sg ServiceGroup

	if idx := strings.Index(rest, "#"); idx >= 0 {
		appEnv, err := ParseApplicationEnvironment(rest[:idx])
		if err != nil {
			return ServiceGroup{}, err
		}
		sg.AppEnv = appEnv
		rest = rest[idx+1:]
	}
	if idx := strings.Index(rest, "@"); idx >= 0 {
		org := rest[idx+1:]
		if org == "" {
			return ServiceGroup{}, &InvalidServiceGroupError{Value: s}
		}
		sg.Organization = org
		rest = rest[:idx]
	}
	parts := strings.Split(rest, ".")
	if len(parts) != 2 || !validGroupPart(parts[0]) || !validGroupPart(parts[1]) {
		return ServiceGroup{}, &InvalidServiceGroupError{Value: s}
	}
	sg.Service = parts[0]
	sg.Group = parts[1]
	return sg, nil
}

func (sg ServiceGroup) String() string {
	var b strings.Builder
	if !sg.AppEnv.IsZero() {
		b.WriteString(sg.AppEnv.String())
		b.WriteString("#")
	}
	b.WriteString(sg.Service)
	b.WriteString(".")
	b.WriteString(sg.Group)
	if sg.Organization != "" {
		b.WriteString("@")
		b.WriteString(sg.Organization)
	}
	return b.String()
}

func (sg ServiceGroup) MarshalText() ([]byte, error) {
	return []byte(sg.String()), nil
}

func (sg *ServiceGroup) UnmarshalText(text []byte) error {
	parsed, err := ParseServiceGroup(string(text))
	if err != nil {
		return err
	}
	*sg = parsed
	return nil
}
