package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// ADS1115Address is the ADDR-to-VDD address; 0x48 is taken by the ADT7410.
const ADS1115Address = 0x49

var adsChannels = [...]ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// ADS1115 reads an analog light sensor (photo transistor or LDR divider)
// through one single-ended channel of the ADC.
type ADS1115 struct {
	adc *ads1x15.Dev
	pin ads1x15.PinADC
}

func NewADS1115(bus i2c.Bus, addr uint16, channel int) (*ADS1115, error) {
	if channel < 0 || channel >= len(adsChannels) {
		return nil, fmt.Errorf("ads1115: channel %d out of range", channel)
	}
	adc, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: addr})
	if err != nil {
		return nil, fmt.Errorf("ads1115: %w", err)
	}
	pin, err := adc.PinForChannel(adsChannels[channel], 4096*physic.MilliVolt, 8*physic.Hertz, ads1x15.BestQuality)
	if err != nil {
		adc.Halt()
		return nil, fmt.Errorf("ads1115: channel %d: %w", channel, err)
	}
	return &ADS1115{adc: adc, pin: pin}, nil
}

func (a *ADS1115) Name() string {
	return "ADS1115"
}

func (a *ADS1115) ReadLight() (int, error) {
	s, err := a.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("ads1115: read: %w", err)
	}
	return clampCount(s.Raw), nil
}

func (a *ADS1115) Close() error {
	if err := a.pin.Halt(); err != nil {
		return err
	}
	return a.adc.Halt()
}

// clampCount drops the sign of a single-ended conversion; small negative
// counts are offset noise around 0 V.
func clampCount(raw int32) int {
	if raw < 0 {
		return 0
	}
	return int(raw)
}
