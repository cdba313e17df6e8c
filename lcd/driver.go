package lcd

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// Driver is a Surface backed by the stock hd44780i2c driver. The driver does
// not report bus errors, so only cursor errors are returned.
type Driver struct {
	dev hd44780i2c.Device
	cfg Config
	buf [1]byte
}

func NewDriver(bus drivers.I2C, cfg Config) *Driver {
	cfg = cfg.withDefaults()
	return &Driver{
		dev: hd44780i2c.New(bus, uint8(cfg.Address)),
		cfg: cfg,
	}
}

func (d *Driver) Address() uint16 { return d.cfg.Address }
func (d *Driver) Rows() int       { return int(d.cfg.Rows) }
func (d *Driver) Cols() int       { return int(d.cfg.Cols) }

func (d *Driver) Configure() error {
	d.dev.Configure(hd44780i2c.Config{
		Width:  d.cfg.Cols,
		Height: d.cfg.Rows,
	})
	return nil
}

func (d *Driver) Clear() error {
	d.dev.ClearDisplay()
	return nil
}

func (d *Driver) SetCursor(row, col int) error {
	if err := checkCursor("lcd.SetCursor", row, col, d.cfg.Rows, d.cfg.Cols); err != nil {
		return err
	}
	d.dev.SetCursor(uint8(col), uint8(row))
	return nil
}

func (d *Driver) WriteChar(c byte) error {
	d.buf[0] = c
	d.dev.Print(d.buf[:])
	return nil
}
