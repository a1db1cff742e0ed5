package spec

/**
 * Inbound load request: the wire message that asks the keeper to run (or
 * update) a service at a given identity
 * @property {PackageIdent} Ident - Target package identity; required
 * @description
 * Every other field is optional: a present field overwrites the matching
 * spec field, an absent one leaves the spec's existing value untouched.
 * These partial-update semantics are what make "update an existing spec"
 * work. Binds may mix standalone and composite-scoped strings; ApplyTo keeps
 * only the standalone ones, the composite paths route the rest.
 */
type LoadRequest struct {
	Ident                  PackageIdent            `json:"ident"`
	Group                  *string                 `json:"group,omitempty"`
	ApplicationEnvironment *ApplicationEnvironment `json:"application_environment,omitempty"`
	BldrURL                *string                 `json:"bldr_url,omitempty"`
	Channel                *string                 `json:"channel,omitempty"`
	Topology               *Topology               `json:"topology,omitempty"`
	UpdateStrategy         *UpdateStrategy         `json:"update_strategy,omitempty"`
	Binds                  []ServiceBind           `json:"binds,omitempty"`
	BindingMode            *BindingMode            `json:"binding_mode,omitempty"`
	ConfigFrom             *string                 `json:"config_from,omitempty"`
	SvcEncryptedPassword   *string                 `json:"svc_encrypted_password,omitempty"`
}

// partitionBinds splits the request's binds into composite-scoped and
// standalone lists, preserving source order.
func (r *LoadRequest) partitionBinds() (composite, standard []ServiceBind) {
	for _, b := range r.Binds {
		if b.IsComposite() {
			composite = append(composite, b)
		} else {
			standard = append(standard, b)
		}
	}
	return composite, standard
}

/**
 * Apply the request to a standalone spec
 * @param {*ServiceSpec} s - Spec being created or updated in place
 * @description
 * Sets the ident, overwrites each spec field whose request field is present,
 * keeps only the standalone binds, and clears any composite membership: a
 * standalone load always detaches the spec from a composite.
 */
func (r *LoadRequest) ApplyTo(s *ServiceSpec) {
	s.Ident = r.Ident
	if r.Group != nil {
		s.Group = *r.Group
	}
	if r.ApplicationEnvironment != nil {
		ae := *r.ApplicationEnvironment
		s.ApplicationEnvironment = &ae
	}
	if r.BldrURL != nil {
		s.BldrURL = *r.BldrURL
	}
	if r.Channel != nil {
		s.Channel = *r.Channel
	}
	if r.Topology != nil {
		s.Topology = *r.Topology
	}
	if r.UpdateStrategy != nil {
		s.UpdateStrategy = *r.UpdateStrategy
	}
	if r.Binds != nil {
		_, standard := r.partitionBinds()
		s.Binds = standard
	}
	if r.BindingMode != nil {
		s.BindingMode = *r.BindingMode
	}
	if r.ConfigFrom != nil {
		s.ConfigFrom = *r.ConfigFrom
	}
	if r.SvcEncryptedPassword != nil {
		s.SvcEncryptedPassword = *r.SvcEncryptedPassword
	}
	s.Composite = ""
}

/**
 * Expand the request into one customized spec per composite member
 * @param {string} compositeName - Name of the composite being loaded
 * @param {[]PackageIdent} services - Member identities, in composite order
 * @param {BindMap} bindMap - Composite-declared bind mappings; consumed as
 *                  each member is resolved
 * @returns {[]ServiceSpec} One spec per member
 * @description
 * All members share a base spec built from the request: same channel and
 * builder, same group and app/env, same topology and update strategy. The
 * platform-specific service password and the development-only config
 * override are stripped from the base, since neither can be targeted at a
 * single member. Each member then gets its own ident and its composite
 * binds resolved against the bind map plus the request's composite-scoped
 * overrides.
 */
func (r *LoadRequest) ToCompositeSpecs(compositeName string, services []PackageIdent, bindMap BindMap) []ServiceSpec {
	base := DefaultServiceSpec()
	r.ApplyTo(&base)
	base.Composite = compositeName
	base.SvcEncryptedPassword = ""
	base.ConfigFrom = ""

	var overrides []ServiceBind
	if r.Binds != nil {
		overrides, _ = r.partitionBinds()
	}

	specs := make([]ServiceSpec, 0, len(services))
	for _, service := range services {
		member := base
		member.Ident = service
		SetCompositeBinds(&member, bindMap, overrides)
		specs = append(specs, member)
	}
	return specs
}

/**
 * Update an existing composite member from the request
 * @param {BindMap} bindMap - Composite-declared bind mappings, consumed for
 *                  this member
 * @param {*ServiceSpec} s - Member spec being updated in place
 * @description
 * Unlike ApplyTo this neither changes the ident nor detaches the member
 * from its composite; only fields present on the request are touched. When
 * binds are present, the standalone ones are set first and the composite
 * resolution then rebuilds the whole bind set from the bind map and the
 * composite-scoped overrides.
 */
func (r *LoadRequest) UpdateComposite(bindMap BindMap, s *ServiceSpec) {
	if r.Group != nil {
		s.Group = *r.Group
	}
	if r.ApplicationEnvironment != nil {
		ae := *r.ApplicationEnvironment
		s.ApplicationEnvironment = &ae
	}
	if r.BldrURL != nil {
		s.BldrURL = *r.BldrURL
	}
	if r.Channel != nil {
		s.Channel = *r.Channel
	}
	if r.Topology != nil {
		s.Topology = *r.Topology
	}
	if r.UpdateStrategy != nil {
		s.UpdateStrategy = *r.UpdateStrategy
	}
	if r.Binds != nil {
		composite, standard := r.partitionBinds()
		s.Binds = standard
		SetCompositeBinds(s, bindMap, composite)
	}
}
