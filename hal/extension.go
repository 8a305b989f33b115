package hal

// InstanceExtensionType identifies an optional instance capability. Support
// is never guaranteed; query it through Backend.QueryInstanceExtensionSupport
// before requesting the extension in an InstanceDesc.
type InstanceExtensionType uint32

const (
	// InstanceExtensionDriverValidation validates API calls, their
	// parameters and context inside the native driver.
	InstanceExtensionDriverValidation InstanceExtensionType = iota
	// InstanceExtensionGPUValidation validates shader-side operations such
	// as buffer reads/writes. Considerably more expensive than driver
	// validation.
	InstanceExtensionGPUValidation
	// InstanceExtensionAdapterNodes exposes multi-node adapter topology
	// through Adapter.QueryNodeCount.
	InstanceExtensionAdapterNodes
)

func (t InstanceExtensionType) String() string {
	switch t {
	case InstanceExtensionDriverValidation:
		return "DriverValidation"
	case InstanceExtensionGPUValidation:
		return "GPUValidation"
	case InstanceExtensionAdapterNodes:
		return "AdapterNodes"
	}
	return "Unknown"
}

type DriverValidationExt struct {
	Enable bool
}

type GPUValidationExt struct {
	Enable bool
}

type AdapterNodesExt struct {
	Enable bool
}

// InstanceExtension pairs an extension type with the payload belonging to
// that type. Values can only be built through the With* constructors, so a
// payload can never disagree with its declared type.
type InstanceExtension struct {
	extType InstanceExtensionType

	driverValidation DriverValidationExt
	gpuValidation    GPUValidationExt
	adapterNodes     AdapterNodesExt
}

func WithDriverValidation(ext DriverValidationExt) InstanceExtension {
	return InstanceExtension{extType: InstanceExtensionDriverValidation, driverValidation: ext}
}

func WithGPUValidation(ext GPUValidationExt) InstanceExtension {
	return InstanceExtension{extType: InstanceExtensionGPUValidation, gpuValidation: ext}
}

func WithAdapterNodes(ext AdapterNodesExt) InstanceExtension {
	return InstanceExtension{extType: InstanceExtensionAdapterNodes, adapterNodes: ext}
}

func (e InstanceExtension) Type() InstanceExtensionType { return e.extType }

func (e InstanceExtension) DriverValidation() DriverValidationExt { return e.driverValidation }
func (e InstanceExtension) GPUValidation() GPUValidationExt       { return e.gpuValidation }
func (e InstanceExtension) AdapterNodes() AdapterNodesExt         { return e.adapterNodes }

// AdapterExtensionType identifies an optional per-adapter capability
// activated at device creation. Query Adapter.QueryExtensionSupport first.
type AdapterExtensionType uint32

const (
	// AdapterExtensionPortabilitySubset marks adapters that only implement
	// a portability subset of the native API and must have that subset
	// activated explicitly at device creation.
	AdapterExtensionPortabilitySubset AdapterExtensionType = iota
)

func (t AdapterExtensionType) String() string {
	switch t {
	case AdapterExtensionPortabilitySubset:
		return "PortabilitySubset"
	}
	return "Unknown"
}

type PortabilitySubsetExt struct {
	Enable bool
}

// AdapterExtension is the tagged device-level counterpart of
// InstanceExtension.
type AdapterExtension struct {
	extType AdapterExtensionType

	portabilitySubset PortabilitySubsetExt
}

func WithPortabilitySubset(ext PortabilitySubsetExt) AdapterExtension {
	return AdapterExtension{extType: AdapterExtensionPortabilitySubset, portabilitySubset: ext}
}

func (e AdapterExtension) Type() AdapterExtensionType { return e.extType }

func (e AdapterExtension) PortabilitySubset() PortabilitySubsetExt { return e.portabilitySubset }
