package switchbot

type Lock struct {
  SequenceNumber int `json:"sequence_number"`
  Battery *int `json:"battery"`
  Calibration bool `json:"calibration"`
  Status LockStatus `json:"status"`
  UpdateFromSecondaryLock bool `json:"update_from_secondary_lock"`
  DoorOpen bool `json:"door_open"`
  DoubleLockMode bool `json:"double_lock_mode"`
  UnclosedAlarm bool `json:"unclosed_alarm"`
  UnlockedAlarm bool `json:"unlocked_alarm"`
  AutoLockPaused bool `json:"auto_lock_paused"`
  NightLatch bool `json:"night_latch"`
}

func (*Lock) isAttributes() {}

func serviceDataBattery(sd []byte) *int {
  if len(sd) == 0 {
    return nil
  }

  return ptr(int(sd[2] & 0x7f))
}

func parseLock(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &Lock{
    SequenceNumber: int(mfr[6]),
    Battery: serviceDataBattery(sd),
    Calibration: bit(mfr[7], 0x80),
    Status: LockStatus(mfr[7]&0x70) >> 4,
    UpdateFromSecondaryLock: bit(mfr[7], 0x08),
    DoorOpen: bit(mfr[7], 0x04),
    DoubleLockMode: bit(mfr[8], 0x80),
    UnclosedAlarm: bit(mfr[8], 0x20),
    UnlockedAlarm: bit(mfr[8], 0x10),
    AutoLockPaused: bit(mfr[8], 0x02),
    NightLatch: len(mfr) > 9 && bit(mfr[9], 0x01),
  }
}

type LockLite struct {
  SequenceNumber int `json:"sequence_number"`
  Battery *int `json:"battery"`
  Calibration bool `json:"calibration"`
  Status LockStatus `json:"status"`
  UpdateFromSecondaryLock bool `json:"update_from_secondary_lock"`
  DoubleLockMode bool `json:"double_lock_mode"`
  UnlockedAlarm bool `json:"unlocked_alarm"`
  NightLatch bool `json:"night_latch"`
}

func (*LockLite) isAttributes() {}

func parseLockLite(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &LockLite{
    SequenceNumber: int(mfr[6]),
    Battery: serviceDataBattery(sd),
    Calibration: bit(mfr[7], 0x80),
    Status: LockStatus(mfr[7]&0x70) >> 4,
    UpdateFromSecondaryLock: bit(mfr[7], 0x08),
    DoubleLockMode: bit(mfr[8], 0x80),
    UnlockedAlarm: bit(mfr[8], 0x10),
    NightLatch: len(mfr) > 9 && bit(mfr[9], 0x01),
  }
}

type LockPro struct {
  SequenceNumber int `json:"sequence_number"`
  Battery int `json:"battery"`
  Calibration bool `json:"calibration"`
  Status LockStatus `json:"status"`
  UpdateFromSecondaryLock bool `json:"update_from_secondary_lock"`
  DoorOpen bool `json:"door_open"`
  DoorOpenFromSecondaryLock bool `json:"door_open_from_secondary_lock"`
  DoubleLockMode bool `json:"double_lock_mode"`
  IsSecondaryLock bool `json:"is_secondary_lock"`
  LeftBatteryCompartmentAlarm int `json:"left_battery_compartment_alarm"`
  RightBatteryCompartmentAlarm int `json:"right_battery_compartment_alarm"`
  LowTemperatureAlarm bool `json:"low_temperature_alarm"`
  ManualUnlockLinkage bool `json:"manual_unlock_linkage"`
  UnclosedAlarm bool `json:"unclosed_alarm"`
  UnlockedAlarm bool `json:"unlocked_alarm"`
  AutoLockPaused bool `json:"auto_lock_paused"`
  NightLatch bool `json:"night_latch"`
}

func (*LockPro) isAttributes() {}

func parseLockPro(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &LockPro{
    SequenceNumber: int(mfr[6]),
    Battery: int(mfr[9] & 0x7f),
    Calibration: bit(mfr[7], 0x80),
    Status: LockStatus(mfr[7]&0x38) >> 3,
    DoorOpen: bit(mfr[8], 0x60),
    DoorOpenFromSecondaryLock: bit(mfr[8], 0x18),
    DoubleLockMode: bit(mfr[10], 0x80),
    IsSecondaryLock: bit(mfr[10], 0x08),
    LeftBatteryCompartmentAlarm: int(mfr[10] & 0x04),
    RightBatteryCompartmentAlarm: int(mfr[10] & 0x02),
    LowTemperatureAlarm: bit(mfr[10], 0x01),
    ManualUnlockLinkage: bit(mfr[11], 0x01),
    UnclosedAlarm: bit(mfr[11], 0x80),
    UnlockedAlarm: bit(mfr[11], 0x40),
    AutoLockPaused: bit(mfr[8], 0x20),
  }
}

type LockUltra struct {
  SequenceNumber int `json:"sequence_number"`
  Battery int `json:"battery"`
  Calibration bool `json:"calibration"`
  Status LockStatus `json:"status"`
  UpdateFromSecondaryLock bool `json:"update_from_secondary_lock"`
  DoorOpen bool `json:"door_open"`
  DoorOpenFromSecondaryLock bool `json:"door_open_from_secondary_lock"`
  DoubleLockMode bool `json:"double_lock_mode"`
  IsSecondaryLock bool `json:"is_secondary_lock"`
  ManualUnlockLinkage bool `json:"manual_unlock_linkage"`
  UnclosedAlarm bool `json:"unclosed_alarm"`
  UnlockedAlarm bool `json:"unlocked_alarm"`
  AutoLockPaused bool `json:"auto_lock_paused"`
  NightLatch bool `json:"night_latch"`
  PowerAlarm bool `json:"power_alarm"`
  BatteryStatus int `json:"battery_status"`
}

func (*LockUltra) isAttributes() {}

func parseLockUltra(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &LockUltra{
    SequenceNumber: int(mfr[6]),
    Battery: int(mfr[9] & 0x7f),
    Calibration: bit(mfr[7], 0x80),
    Status: LockStatus(mfr[7]&0x38) >> 3,
    DoorOpen: bit(mfr[8], 0x60),
    DoorOpenFromSecondaryLock: bit(mfr[8], 0x18),
    DoubleLockMode: bit(mfr[10], 0x80),
    IsSecondaryLock: bit(mfr[10], 0x08),
    ManualUnlockLinkage: bit(mfr[10], 0x01),
    UnclosedAlarm: bit(mfr[11], 0x80),
    UnlockedAlarm: bit(mfr[11], 0x40),
    AutoLockPaused: bit(mfr[8], 0x02),
    PowerAlarm: bit(mfr[11], 0x08),
    BatteryStatus: int(mfr[11] & 0x07),
  }
}

type Keypad struct {
  Battery *int `json:"battery"`
  AttemptState *int `json:"attempt_state"`
  // Set by KeypadState, never by the parser itself.
  Success *bool `json:"success,omitempty"`
}

func (*Keypad) isAttributes() {}

func parseKeypad(sd, mfr []byte) Attributes {
  if sd == nil || mfr == nil {
    return &Keypad{}
  }

  return &Keypad{
    Battery: ptr(int(sd[2])),
    AttemptState: ptr(int(mfr[6])),
  }
}
