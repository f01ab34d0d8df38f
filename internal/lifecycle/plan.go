package lifecycle

// Context carries values produced by one action into later ones within
// a single invocation. Nothing here survives the process.
type Context struct {
	RouterNamespace string
}

// Action is one named side-effecting step of a plan.
type Action struct {
	Name string
	Run  func(*Context) error
}

// Plan is a strictly ordered action sequence for one (verb, phase).
type Plan []Action

// Names returns the action names in execution order.
func (p Plan) Names() []string {
	names := make([]string, 0, len(p))
	for _, action := range p {
		names = append(names, action.Name)
	}
	return names
}

// Options selects the conditional branches of a plan.
type Options struct {
	// GroupPolicyEnabled gates all behavior; checked by the dispatcher.
	GroupPolicyEnabled bool
	// EnableNFP turns on the NFP-only actions in every phase.
	EnableNFP bool
}

// BuildPlan produces the action sequence for (verb, phase). Pairs
// outside the dispatch table yield an empty plan. Action order within
// a plan is normative: later writes depend on earlier ones having
// completed (the NFP neutron writes override the GBP ones, apache is
// stopped before it is started).
func BuildPlan(verb Verb, phase Phase, opts Options, c Collaborators) Plan {
	switch verb {
	case VerbStack:
		return buildStackPlan(phase, opts, c)
	case VerbUnstack:
		return Plan{summary("summary-removing-gbp", "Removing GBP", c)}
	case VerbClean:
		return Plan{summary("summary-cleaning-gbp", "Cleaning GBP", c)}
	default:
		return nil
	}
}

func buildStackPlan(phase Phase, opts Options, c Collaborators) Plan {
	switch phase {
	case PhasePreInstall:
		plan := Plan{summary("summary-preparing-gbp", "Preparing GBP", c)}
		if opts.EnableNFP {
			plan = append(plan, summary("summary-preparing-nfp", "Preparing NFP", c))
		}
		return plan

	case PhaseInstall:
		plan := Plan{summary("summary-installing-gbp", "Installing GBP", c)}
		if opts.EnableNFP {
			plan = append(plan, summary("summary-installing-nfp", "Installing NFP", c))
		}
		return plan

	case PhasePostConfig:
		plan := Plan{
			summary("summary-configuring-gbp", "Configuring GBP", c),
			step("configure-nova", c.Config.ConfigureNova),
			step("configure-heat", c.Config.ConfigureHeat),
			step("configure-neutron-gbp", c.Config.ConfigureNeutronGBP),
			step("install-gbpclient", c.Packages.InstallGBPClient),
			step("install-gbpservice", c.Packages.InstallGBPService),
			step("init-gbpservice", c.Packages.InitGBPService),
			step("install-gbpheat", c.Packages.InstallGBPHeat),
			step("install-gbpui", c.Packages.InstallGBPUI),
			step("stop-apache", c.Services.StopApache),
			step("start-apache", c.Services.StartApache),
		}
		if opts.EnableNFP {
			plan = append(plan,
				summary("summary-configuring-nfp", "Configuring NFP", c),
				step("configure-neutron-nfp", c.Config.ConfigureNeutronNFP),
				step("install-nfpgbpservice", c.Packages.InstallNFPGBPService),
				step("init-nfpgbpservice", c.Packages.InitNFPGBPService),
			)
		}
		return plan

	case PhaseExtra:
		plan := Plan{summary("summary-initializing-gbp", "Initializing GBP", c)}
		if opts.EnableNFP {
			plan = append(plan,
				summary("summary-initializing-nfp", "Initializing NFP", c),
				step("assign-user-role-credential", c.Bootstrap.AssignUserRoleCredential),
				step("create-nfp-gbp-resources", c.Bootstrap.CreateNFPGBPResources),
				Action{
					Name: "get-router-namespace",
					Run: func(ctx *Context) error {
						namespace, err := c.Bootstrap.RouterNamespace()
						if err != nil {
							return err
						}
						ctx.RouterNamespace = namespace
						return nil
					},
				},
				Action{
					Name: "copy-nfp-files-and-start-process",
					Run: func(ctx *Context) error {
						return c.Bootstrap.CopyNFPFilesAndStartProcess(ctx.RouterNamespace)
					},
				},
			)
		}
		return plan

	default:
		return nil
	}
}

func summary(name, msg string, c Collaborators) Action {
	return Action{
		Name: name,
		Run: func(*Context) error {
			c.Summary.Summary(msg)
			return nil
		},
	}
}

func step(name string, fn func() error) Action {
	return Action{
		Name: name,
		Run:  func(*Context) error { return fn() },
	}
}
