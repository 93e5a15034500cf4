package kismet

// Datasource is a single capture source as reported by the server's
// all_sources endpoint. Only the fields the shootout consumes are mapped;
// the server returns many more.
type Datasource struct {
	Name      string `json:"kismet.datasource.name"`
	UUID      string `json:"kismet.datasource.uuid"`
	Interface string `json:"kismet.datasource.interface"`
	Channel   string `json:"kismet.datasource.channel"`
	Hardware  string `json:"kismet.datasource.hardware"`
	Packets   int64  `json:"kismet.datasource.num_packets"`
}

// Interface is a capture-capable interface discovered on the server host.
// InUseUUID is non-empty when the interface is already claimed by a
// datasource.
type Interface struct {
	Interface string     `json:"kismet.datasource.probed.interface"`
	InUseUUID string     `json:"kismet.datasource.probed.in_use_uuid"`
	Driver    DriverType `json:"kismet.datasource.type_driver"`
}

// DriverType identifies the capture driver behind a probed interface.
type DriverType struct {
	Type string `json:"kismet.datasource.driver.type"`
}
