package datum

import "testing"

// getMember(lib, n)'s packed Number() has n in the low 16 bits and lib in
// the high 16 bits.
func TestCastMemberRefNumberPacksLowAndHighBits(t *testing.T) {
	cases := []struct{ lib, member int32 }{
		{1, 1},
		{1, 42},
		{2, 42},
		{5, 65535},
	}
	for _, c := range cases {
		ref := CastMemberRef{CastLib: c.lib, Member: c.member}
		n := ref.Number()
		if n&0xFFFF != c.member&0xFFFF {
			t.Errorf("CastLib=%d Member=%d: expected low 16 bits == %d, got %d", c.lib, c.member, c.member, n&0xFFFF)
		}
		if (n>>16)&0xFFFF != c.lib&0xFFFF {
			t.Errorf("CastLib=%d Member=%d: expected high 16 bits == %d, got %d", c.lib, c.member, c.lib, (n>>16)&0xFFFF)
		}
	}
}
