package chip8

import "fmt"

// String renders the VM's register file and control state, for debug
// logging from a host.
func (vm *VM) String() string {
	return fmt.Sprintf(
		"opcode=%#04x pc=%#04x sp=%d i=%#04x v=%02x",
		vm.lastOpcode, vm.pc, vm.sp, vm.i, vm.v,
	)
}
