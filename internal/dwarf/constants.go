// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package dwarf

// dwTag is a DW_TAG_* constant (DWARF4 §7.5.3).
type dwTag uint64

const (
	tagCompileUnit       dwTag = 0x11
	tagSubprogram        dwTag = 0x2e
	tagInlinedSubroutine dwTag = 0x1d
)

// dwAttr is a DW_AT_* constant (DWARF4 §7.5.4, plus the MIPS vendor
// extension for linkage names some older ARM toolchains still emit).
type dwAttr uint64

const (
	attrSibling       dwAttr = 0x01
	attrLocation      dwAttr = 0x02
	attrName          dwAttr = 0x03
	attrStmtList      dwAttr = 0x10
	attrLowpc         dwAttr = 0x11
	attrHighpc        dwAttr = 0x12
	attrLanguage      dwAttr = 0x13
	attrCompDir       dwAttr = 0x1b
	attrConstValue    dwAttr = 0x1c
	attrDeclFile      dwAttr = 0x3a
	attrDeclLine      dwAttr = 0x3b
	attrEntryPC       dwAttr = 0x52
	attrRanges        dwAttr = 0x55
	attrCallFile      dwAttr = 0x58
	attrCallLine      dwAttr = 0x59
	attrAbstractOrigin dwAttr = 0x31
	attrSpecification dwAttr = 0x47
	attrLinkageName   dwAttr = 0x6e
	attrMIPSLinkageName dwAttr = 0x2007
)

// dwForm is a DW_FORM_* constant (DWARF4/5 §7.5.6).
type dwForm uint64

const (
	formAddr         dwForm = 0x01
	formBlock2       dwForm = 0x03
	formBlock4       dwForm = 0x04
	formData2        dwForm = 0x05
	formData4        dwForm = 0x06
	formData8        dwForm = 0x07
	formString       dwForm = 0x08
	formBlock        dwForm = 0x09
	formBlock1       dwForm = 0x0a
	formData1        dwForm = 0x0b
	formFlag         dwForm = 0x0c
	formSdata        dwForm = 0x0d
	formStrp         dwForm = 0x0e
	formUdata        dwForm = 0x0f
	formRefAddr      dwForm = 0x10
	formRef1         dwForm = 0x11
	formRef2         dwForm = 0x12
	formRef4         dwForm = 0x13
	formRef8         dwForm = 0x14
	formRefUdata     dwForm = 0x15
	formIndirect     dwForm = 0x16
	formSecOffset    dwForm = 0x17
	formExprloc      dwForm = 0x18
	formFlagPresent  dwForm = 0x19
	formStrx         dwForm = 0x1a
	formAddrx        dwForm = 0x1b
	formRefSup4      dwForm = 0x1c
	formStrpSup      dwForm = 0x1d
	formData16       dwForm = 0x1e
	formLineStrp     dwForm = 0x1f
	formRefSig8      dwForm = 0x20
	formImplicitConst dwForm = 0x21
	formLoclistx     dwForm = 0x22
	formRnglistx     dwForm = 0x23
	formRefSup8      dwForm = 0x24
	formStrx1        dwForm = 0x25
	formStrx2        dwForm = 0x26
	formStrx3        dwForm = 0x27
	formStrx4        dwForm = 0x28
	formAddrx1       dwForm = 0x29
	formAddrx2       dwForm = 0x2a
	formAddrx3       dwForm = 0x2b
	formAddrx4       dwForm = 0x2c
)
