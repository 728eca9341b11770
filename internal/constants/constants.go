package constants

import "time"

// bridge connection
const BridgePort = 80
const DefaultTimeout = 3 * time.Second
const DefaultDeviceType = "phuey"

// the bridge handles roughly ten light commands per second
const ThrottleInterval = 100 * time.Millisecond

// bridge sub-resources accepting bundled writes
const SubResourceState = "state"
const SubResourceAction = "action"
const SubResourceConfig = "config"

// sent in place of a missing value
const NoneValue = "none"

// the bridge's virtual "all lights" group
const AllLightsGroupID = "0"

const ScheduleTimeFormat = "2006-01-02T15:04:05"
