package inferior

// 0xCC is INT 3, the software breakpoint trap interrupt. It is one byte
// wide, which is why a trap reports a program counter one past the
// breakpoint's address.
const trapOpcode byte = 0xCC
