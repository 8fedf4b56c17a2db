// Package player runs the init and play routines of a tune on a 6502 CPU.
package player

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/log"
)

// InstructionLimit is the number of instructions a routine may execute before it is considered
// to be stuck.
const InstructionLimit = 0x100000

const (
	memorySize    = 0x10000
	processorPort = 0x01
	rasterControl = 0xd011
	rasterLine    = 0xd012
	irqVector     = 0xfffe
	kernalVector  = 0x0314

	// banking configuration with the Kernal and BASIC ROMs switched out
	ramOnlyBanking = 0x05
	defaultBanking = 0x37

	rasterBit   = 0x80
	lastRaster  = 0x38
	kernalExit1 = 0xea31
	kernalExit2 = 0xea81

	// stack pointer at routine entry, a return on this level ends the routine
	entryStack = 0xff

	opcodeBrk = 0x00
	opcodeRti = 0x40
	opcodeRts = 0x60
)

var (
	// ErrRunaway is returned when the play routine does not return within the instruction limit.
	ErrRunaway = errors.New("CPU executed abnormally high amount of instructions in play routine")

	// ErrUnsupportedOpcode is returned when a routine executes an opcode that halts the CPU.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
)

// ram exposes the memory image as the bus of the CPU.
type ram []byte

func (r ram) Read(address uint16) uint8 {
	return r[address]
}

func (r ram) Write(address uint16, value uint8) {
	r[address] = value
}

// Player calls the routines of a tune loaded into a memory image.
type Player struct {
	logger *log.Logger
	cpu    *cpu6502.CPU
	mem    []byte
	play   uint16
}

// New returns a player operating on the given 64K memory image.
func New(logger *log.Logger, mem []byte) (*Player, error) {
	if len(mem) != memorySize {
		return nil, fmt.Errorf("invalid memory size %d", len(mem))
	}
	bus, err := cpu6502.NewMemory(ram(mem))
	if err != nil {
		return nil, fmt.Errorf("creating memory bus: %w", err)
	}
	return &Player{
		logger: logger,
		cpu:    cpu6502.New(bus, cpu6502.WithVariant(cpu6502.VariantNMOS6502)),
		mem:    mem,
	}, nil
}

// Init runs the init routine with the subtune number in the accumulator and sets the play
// address. A play address of 0 is replaced by the interrupt vector the init routine installed.
// The raster registers advance with every instruction so that routines waiting for a raster
// line or detecting the SID model terminate.
func (p *Player) Init(initAddress uint16, subtune int, playAddress uint16) error {
	p.mem[processorPort] = defaultBanking
	p.reset(initAddress, byte(subtune))

	for instructions := 0; ; instructions++ {
		done, err := p.step()
		if err != nil {
			return fmt.Errorf("running init routine: %w", err)
		}
		if done {
			break
		}
		p.advanceRaster()
		if instructions >= InstructionLimit {
			p.logger.Warn("CPU executed a high number of instructions in init, breaking")
			break
		}
	}

	p.play = playAddress
	if p.play == 0 {
		p.logger.Warn("SID has play address 0, reading from interrupt vector instead")
		if p.kernalBankedOut() {
			p.play = p.read16(irqVector)
		} else {
			p.play = p.read16(kernalVector)
		}
		p.logger.Info("New play address", log.String("address", fmt.Sprintf("$%04X", p.play)))
	}
	return nil
}

// PlayFrame runs the play routine once and returns the number of CPU cycles it took.
// The routine also ends when it jumps to the Kernal interrupt exit while the Kernal is banked in.
func (p *Player) PlayFrame() (uint64, error) {
	start := p.reset(p.play, 0)

	for instructions := 0; ; instructions++ {
		done, err := p.step()
		cycles := p.cpu.Cycles() - start
		if err != nil {
			return cycles, fmt.Errorf("running play routine: %w", err)
		}
		if done {
			return cycles, nil
		}
		if instructions >= InstructionLimit {
			return cycles, fmt.Errorf("%w at $%04X", ErrRunaway, p.cpu.PC)
		}
		if !p.kernalBankedOut() && (p.cpu.PC == kernalExit1 || p.cpu.PC == kernalExit2) {
			return cycles, nil
		}
	}
}

// PlayAddress returns the address of the play routine.
func (p *Player) PlayAddress() uint16 {
	return p.play
}

// Memory returns the memory image the routines operate on.
func (p *Player) Memory() []byte {
	return p.mem
}

// reset prepares the CPU for a routine call and returns the cycle counter at its start.
func (p *Player) reset(pc uint16, a byte) uint64 {
	c := p.cpu
	c.PC = pc
	c.A = a
	c.X = 0
	c.Y = 0
	c.SP = entryStack
	c.Flags = cpu6502.Flags{U: 1}
	return c.Cycles()
}

// step executes one instruction and reports whether the routine finished with it.
// BRK and a return on the entry stack level end the routine.
func (p *Player) step() (bool, error) {
	c := p.cpu
	code := p.mem[c.PC]
	if cpu6502.Opcodes[code].Instruction == cpu6502.KilInst {
		return false, fmt.Errorf("%w $%02X at $%04X", ErrUnsupportedOpcode, code, c.PC)
	}

	last := code == opcodeBrk || (c.SP == entryStack && (code == opcodeRts || code == opcodeRti))
	if err := c.Step(); err != nil {
		return false, fmt.Errorf("executing $%04X: %w", c.PC, err)
	}
	return last, nil
}

// advanceRaster moves the raster beam by one line, flipping the high bit of the raster line in
// the control register at the end of the visible area.
func (p *Player) advanceRaster() {
	p.mem[rasterLine]++
	if p.mem[rasterLine] == 0 || (p.mem[rasterControl]&rasterBit != 0 && p.mem[rasterLine] >= lastRaster) {
		p.mem[rasterControl] ^= rasterBit
		p.mem[rasterLine] = 0
	}
}

func (p *Player) kernalBankedOut() bool {
	return p.mem[processorPort]&0x07 == ramOnlyBanking
}

func (p *Player) read16(addr uint16) uint16 {
	return uint16(p.mem[addr]) | uint16(p.mem[addr+1])<<8
}
