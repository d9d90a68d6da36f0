package config

// ConfigFileName is the name of the optional project configuration file.
const ConfigFileName = "dynexpr.yaml"

// ConfigFileNames are all recognized configuration file names, in lookup order.
var ConfigFileNames = []string{"dynexpr.yaml", "dynexpr.yml"}

// IsTestMode indicates if the program is running under tests.
// Output that differs between runs, such as type GUIDs, is left out in this mode.
var IsTestMode = false

// Well-known assembly names
const (
	CoreLibAssemblyName     = "corelib"
	ExprLibAssemblyName     = "dynexpr"
	SynthesizedAssemblyName = "dynexpr.Synthesized"

	// CollectibleAssemblySuffix names the companion assembly holding
	// synthesized delegates that are never cached.
	CollectibleAssemblySuffix = ".Collectible"
)

// Well-known type and member names
const (
	InvokeMethodName   = "Invoke"
	OpImplicitName     = "op_Implicit"
	OpExplicitName     = "op_Explicit"
	CallSiteTypeName   = "CallSite"
	NullableTypeName   = "Nullable`1"
	FuncTypeNamePrefix = "Func`"
	ActionTypeName     = "Action"
)

// MaxGenericDelegateArity is the largest number of generic arguments a built-in
// Func/Action delegate accepts (parameters plus the return type).
const MaxGenericDelegateArity = 17
