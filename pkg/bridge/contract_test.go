package bridge_test

import (
	"context"
	"errors"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/bridge"
)

// fakeCaller answers eth_call with a canned payload
type fakeCaller struct {
	output []byte
	err    error
	code   []byte
	calls  []ethereum.CallMsg
}

func (f *fakeCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return f.code, nil
}

func (f *fakeCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls = append(f.calls, call)
	return f.output, f.err
}

var _ = Describe("Contract", func() {
	var (
		caller   *fakeCaller
		contract *bridge.Contract
		address  common.Address
		logger   *logrus.Logger
	)

	BeforeEach(func() {
		logger = logrus.New()
		logger.SetOutput(io.Discard)

		address = common.HexToAddress("0x4aa42145Aa6Ebf72e164C9bBC74fbD3788045016")
		caller = &fakeCaller{code: []byte{0x60, 0x80}}

		var err error
		contract, err = bridge.NewContract("home", address, caller, logger)
		Expect(err).NotTo(HaveOccurred())
	})

	It("decodes the uint256 returned by gasPrice()", func() {
		caller.output = common.LeftPadBytes(big.NewInt(15_000_000_000).Bytes(), 32)

		price, err := contract.GasPrice(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(price.String()).To(Equal("15000000000"))

		Expect(caller.calls).To(HaveLen(1))
		Expect(*caller.calls[0].To).To(Equal(address))
		Expect(caller.calls[0].Data).To(Equal(crypto.Keccak256([]byte("gasPrice()"))[:4]))
	})

	It("wraps RPC errors as contract call failures", func() {
		caller.err = errors.New("execution reverted")

		_, err := contract.GasPrice(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(bridge.IsContractError(err, bridge.ErrCodeContractCallFailure)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("home side"))
		Expect(errors.Unwrap(err)).To(MatchError("execution reverted"))
	})

	It("fails when no contract is deployed at the address", func() {
		caller.output = nil
		caller.code = nil

		_, err := contract.GasPrice(context.Background())
		Expect(bridge.IsContractError(err, bridge.ErrCodeContractCallFailure)).To(BeTrue())
	})

	It("exposes the bound address", func() {
		Expect(contract.Address()).To(Equal(address))
	})
})

var _ = Describe("Config", func() {
	It("requires an RPC URL", func() {
		cfg := &bridge.Config{Side: "foreign", Address: "0x4aa42145Aa6Ebf72e164C9bBC74fbD3788045016"}
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("RPC URL is required")))
	})

	It("rejects malformed bridge addresses", func() {
		cfg := &bridge.Config{Side: "foreign", RPCURL: "http://localhost:8545", Address: "0x1234"}
		err := cfg.Validate()
		Expect(bridge.IsContractError(err, bridge.ErrCodeInvalidAddress)).To(BeTrue())
	})

	It("reads side-prefixed environment variables", func() {
		GinkgoT().Setenv("FOREIGN_RPC_URL", "http://localhost:8545")
		GinkgoT().Setenv("FOREIGN_BRIDGE_ADDRESS", "0x4aa42145Aa6Ebf72e164C9bBC74fbD3788045016")

		cfg := bridge.NewConfig("foreign")
		Expect(cfg.RPCURL).To(Equal("http://localhost:8545"))
		Expect(cfg.MaxRetries).To(Equal(bridge.DefaultMaxRetries))
		Expect(cfg.Validate()).To(Succeed())
	})
})
