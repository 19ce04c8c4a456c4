package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// RegisterLegacyAminoCodec registers the x/aioracle concrete types on the
// provided LegacyAmino codec. These names are used for Amino JSON.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateRequest{}, "aioracle/MsgCreateRequest", nil)
	cdc.RegisterConcrete(&MsgRegisterMerkleRoot{}, "aioracle/MsgRegisterMerkleRoot", nil)
	cdc.RegisterConcrete(&MsgClaimReward{}, "aioracle/MsgClaimReward", nil)
	cdc.RegisterConcrete(&MsgUpdateConfig{}, "aioracle/MsgUpdateConfig", nil)
	cdc.RegisterConcrete(&MsgWithdrawFunds{}, "aioracle/MsgWithdrawFunds", nil)
}

// ModuleCdc encodes store values, genesis state and executor reports.
// State types are plain structs, so amino reflection handles them without
// generated marshalers.
var ModuleCdc = codec.NewLegacyAmino()

func init() {
	RegisterLegacyAminoCodec(ModuleCdc)
	ModuleCdc.Seal()
}
